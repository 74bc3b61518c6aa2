// Package console is the printing service the recipes write their output
// through.
package console

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/on-the-ground/effect_ive_cookbook/effects/service"
	"github.com/on-the-ground/effect_ive_cookbook/effects/task"
)

// Console prints lines.
type Console interface {
	Log(args ...any)
}

// Tag is the service tag of the Console.
var Tag = service.NewTag[Console]("Console")

type writerConsole struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter returns a Console printing one line per Log call to w.
func NewWriter(w io.Writer) Console {
	return &writerConsole{w: w}
}

var stdout = NewWriter(os.Stdout)

// Log prints args separated by spaces. Values implementing json.Marshaler
// are printed as indented JSON.
func (c *writerConsole) Log(args ...any) {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = render(arg)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.w, strings.Join(parts, " "))
}

func render(arg any) string {
	if m, ok := arg.(json.Marshaler); ok {
		if bs, err := json.MarshalIndent(m, "", "  "); err == nil {
			return string(bs)
		}
	}
	return fmt.Sprint(arg)
}

// Log prints through the Console service in ctx, or to stdout when none is
// provided.
func Log(ctx context.Context, args ...any) {
	service.GetOption(ctx, Tag).GetOrElse(stdout).Log(args...)
}

// Print is Log as a task.
func Print(args ...any) task.Task[struct{}] {
	return func(ctx context.Context) (struct{}, error) {
		Log(ctx, args...)
		return struct{}{}, nil
	}
}
