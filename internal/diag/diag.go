// Package diag renders fatal IR contract violations and carries the
// scoped diagnostic context the builder reads a violation's subject from
// (callers driving the builder push frames onto it). There is no source position to report here: this core never
// sees source text, only IR, so a Violation is anchored on the
// offending value/instruction's own name instead.
package diag

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Level narrows to what the core ever emits: every core-raised
// diagnostic is fatal.
type Level string

const (
	Fatal Level = "error"
	Note  Level = "note"
)

// Violation is a single contract breach: a precondition the builder, an
// analysis or a pass found broken. Code groups violations by the kind of
// contract (see the Code constants below).
type Violation struct {
	Level   Level
	Code    string
	Message string
	Subject string // the IR value/instruction/block name this is about
	Notes   []string
	Help    string
}

// Violation categories, named rather than numbered since there is no
// parser/semantic front-end surface here to assign numeric codes to.
const (
	CodeContractViolation = "contract-violation"
	CodeResourceExhausted = "resource-exhausted"
	CodeNonConvergence    = "pass-non-convergence"
)

func (v Violation) Error() string { return Format(v) }

// Format renders v in a Rust-compiler-style layout, minus the
// source-context lines a position-free diagnostic has nothing to show.
func Format(v Violation) string {
	var b strings.Builder
	levelColor := levelColor(v.Level)
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	if v.Code != "" {
		b.WriteString(fmt.Sprintf("%s[%s]: %s\n", levelColor(string(v.Level)), v.Code, v.Message))
	} else {
		b.WriteString(fmt.Sprintf("%s: %s\n", levelColor(string(v.Level)), v.Message))
	}
	if v.Subject != "" {
		b.WriteString(fmt.Sprintf("  %s %s\n", dim("-->"), bold(v.Subject)))
	}
	for _, n := range v.Notes {
		b.WriteString(fmt.Sprintf("  %s %s %s\n", dim("│"), color.New(color.FgBlue).Sprint("note:"), n))
	}
	if v.Help != "" {
		b.WriteString(fmt.Sprintf("  %s %s %s\n", dim("│"), color.New(color.FgGreen).Sprint("help:"), v.Help))
	}
	return b.String()
}

func levelColor(l Level) func(...interface{}) string {
	switch l {
	case Fatal:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	case Note:
		return color.New(color.FgBlue, color.Bold).SprintFunc()
	default:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	}
}

// Abort panics with v. It is the core's only exit from a broken
// contract: the builder, analyses and passes never return an error for
// these, treating IR-invariant breaches as unrecoverable.
func Abort(v Violation) {
	panic(v)
}

// Fatalf is a convenience wrapper for the common case of a plain message
// with no structured notes/help.
func Fatalf(code, subject, format string, args ...interface{}) {
	Abort(Violation{Level: Fatal, Code: code, Message: fmt.Sprintf(format, args...), Subject: subject})
}

// Context is the scoped stack of diagnostic frames pushed while lowering
// a construct (a function, a global initializer); the builder renders it
// as a violation's Subject. Each frame narrows what a panic's Subject
// refers to; the closer Push returns restores the parent frame, used via
// `defer ctx.Push(name)()`.
type Context struct {
	stack []string
}

// Push appends name to the active scope chain and returns a closer that
// pops it back off; call as `defer ctx.Push("fn foo")()`.
func (c *Context) Push(name string) func() {
	c.stack = append(c.stack, name)
	return func() {
		c.stack = c.stack[:len(c.stack)-1]
	}
}

// Scope renders the current frame chain, e.g. "fn foo > block entry".
func (c *Context) Scope() string {
	return strings.Join(c.stack, " > ")
}
