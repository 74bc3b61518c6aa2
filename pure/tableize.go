package pure

// TableizeI1O1 memoizes a one-argument pure function.
func TableizeI1O1[I1 comparable, O1 any](
	pureFn func(I1) O1,
	maxTableSize int,
) func(I1) O1 {
	memo := NewTable[I1, O1](maxTableSize)
	return func(i1 I1) O1 {
		if v, ok := memo.Load(i1); ok {
			return v
		}
		v := pureFn(i1)
		memo.Store(i1, v)
		return v
	}
}

type pair[A, B any] struct {
	a A
	b B
}

// TableizeI1O2 memoizes a one-argument pure function with two results,
// typically a value and an error.
func TableizeI1O2[I1 comparable, O1, O2 any](
	pureFn func(I1) (O1, O2),
	maxTableSize int,
) func(I1) (O1, O2) {
	tableized := TableizeI1O1(func(i1 I1) pair[O1, O2] {
		o1, o2 := pureFn(i1)
		return pair[O1, O2]{o1, o2}
	}, maxTableSize)
	return func(i1 I1) (O1, O2) {
		p := tableized(i1)
		return p.a, p.b
	}
}
