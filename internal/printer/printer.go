// Package printer renders a module as human-readable text: a snapshot
// format, not a compilation backend. An indent/writeLine text builder
// with one switch arm per instruction kind.
package printer

import (
	"fmt"
	"io"
	"strings"

	"mimicc/internal/ir"
)

// Printer accumulates the dump of one module into an internal builder;
// String returns the finished text.
type Printer struct {
	out strings.Builder
}

// Dump renders m as text. Every entry point into the textual format
// first seals the global constructor, so the dump always reflects the
// final, closed set of global initializers.
func Dump(m *ir.Module) string {
	m.SealGlobalCtor()
	p := &Printer{}
	for _, g := range m.GlobalVars {
		p.printGlobal(g)
	}
	for _, fn := range m.Functions {
		p.printFunction(fn)
	}
	return p.out.String()
}

// DumpTo writes the same text Dump returns to w.
func DumpTo(w io.Writer, m *ir.Module) error {
	_, err := io.WriteString(w, Dump(m))
	return err
}

func (p *Printer) writeLine(format string, args ...interface{}) {
	fmt.Fprintf(&p.out, format+"\n", args...)
}

func (p *Printer) printGlobal(g *ir.GlobalVar) {
	init := "zeroinitializer"
	if g.Initializer != nil {
		init = valueRef(g.Initializer)
	}
	mutability := "const"
	if g.IsMutable {
		mutability = "mutable"
	}
	p.writeLine("%s global @%s %s = %s", g.Linkage, g.Name(), mutability, init)
}

func (p *Printer) printFunction(fn *ir.Function) {
	params := make([]string, len(fn.ParamTypes()))
	for i, t := range fn.ParamTypes() {
		params[i] = t.String()
	}
	ret := "void"
	if rt := fn.ReturnType(); rt != nil {
		ret = rt.String()
	}
	if fn.IsDeclaration() {
		p.writeLine("%s declare @%s(%s) -> %s", fn.Linkage, fn.Name(), strings.Join(params, ", "), ret)
		return
	}
	p.writeLine("%s @%s(%s) -> %s {", fn.Linkage, fn.Name(), strings.Join(params, ", "), ret)
	for _, b := range fn.Blocks {
		p.printBlock(b)
	}
	p.writeLine("}")
}

func (p *Printer) printBlock(b *ir.Block) {
	preds := b.Predecessors()
	predNames := make([]string, len(preds))
	for i, pr := range preds {
		predNames[i] = "%" + pr.Name()
	}
	if len(predNames) == 0 {
		p.writeLine("%%%s: ; preds: (none)", b.Name())
	} else {
		p.writeLine("%%%s: ; preds: %s", b.Name(), strings.Join(predNames, ", "))
	}
	for _, inst := range b.Instructions {
		p.writeLine("  %s", instructionText(inst))
	}
}

// instructionText renders one instruction as opcode-mnemonic text. It
// has no receiver because nothing here needs per-module state beyond
// what a Value already carries (its own name and type).
func instructionText(inst ir.Instruction) string {
	switch t := inst.(type) {
	case *ir.LoadInst:
		return fmt.Sprintf("%s = load %s, %s", valueRef(t), t.TypeOf(), valueRef(t.Ptr()))
	case *ir.StoreInst:
		return fmt.Sprintf("store %s %s, %s %s", t.Val().TypeOf(), valueRef(t.Val()), t.Ptr().TypeOf(), valueRef(t.Ptr()))
	case *ir.AllocaInst:
		return fmt.Sprintf("%s = alloca %s", valueRef(t), t.Elem)
	case *ir.AccessInst:
		mnemonic := "ptr_access"
		if t.AccessOf == ir.AccessElement {
			mnemonic = "elem_access"
		}
		return fmt.Sprintf("%s = %s %s, %s", valueRef(t), mnemonic, valueRef(t.Base()), valueRef(t.Index()))
	case *ir.BinaryInst:
		return fmt.Sprintf("%s = %s %s %s, %s", valueRef(t), t.Op, t.LHS().TypeOf(), valueRef(t.LHS()), valueRef(t.RHS()))
	case *ir.UnaryInst:
		return fmt.Sprintf("%s = %s %s %s", valueRef(t), t.Op, t.X().TypeOf(), valueRef(t.X()))
	case *ir.CastInst:
		return fmt.Sprintf("%s = cast %s %s to %s", valueRef(t), t.Src().TypeOf(), valueRef(t.Src()), t.TypeOf())
	case *ir.CallInst:
		args := make([]string, len(t.Args()))
		for i, a := range t.Args() {
			args[i] = valueRef(a)
		}
		prefix := ""
		if !isVoidType(t.TypeOf()) {
			prefix = valueRef(t) + " = "
		}
		return fmt.Sprintf("%scall %s %s(%s)", prefix, t.TypeOf(), valueRef(t.Callee()), strings.Join(args, ", "))
	case *ir.BranchInst:
		return fmt.Sprintf("br %s, %%%s, %%%s", valueRef(t.Cond()), t.TrueBlock().Name(), t.FalseBlock().Name())
	case *ir.JumpInst:
		return fmt.Sprintf("jump %%%s", t.Target().Name())
	case *ir.ReturnInst:
		if v := t.Value_(); v != nil {
			return fmt.Sprintf("ret %s %s", v.TypeOf(), valueRef(v))
		}
		return "ret void"
	case *ir.PhiInst:
		parts := make([]string, 0, len(t.IncomingOperands()))
		for _, op := range t.IncomingOperands() {
			parts = append(parts, fmt.Sprintf("[%s, %%%s]", valueRef(op.Incoming()), op.From().Name()))
		}
		return fmt.Sprintf("%s = phi %s %s", valueRef(t), t.TypeOf(), strings.Join(parts, ", "))
	case *ir.SelectInst:
		return fmt.Sprintf("%s = select %s, %s, %s", valueRef(t), valueRef(t.Cond()), valueRef(t.TrueVal()), valueRef(t.FalseVal()))
	default:
		return fmt.Sprintf("; unknown instruction %T", t)
	}
}

func isVoidType(t interface{ String() string }) bool {
	return t != nil && t.String() == "void"
}

// valueRef renders the operand-position text for any Value: @name for
// functions/globals, %name for blocks/instructions, an "-arg" suffixed
// %name for parameters (matching the builder's worked examples), and an
// inline "constant <type> <literal>" for constants.
func valueRef(v ir.Value) string {
	switch t := v.(type) {
	case *ir.Function:
		return "@" + t.Name()
	case *ir.GlobalVar:
		return "@" + t.Name()
	case *ir.Block:
		return "%" + t.Name()
	case *ir.ArgRef:
		return "%" + t.Name() + "-arg"
	case *ir.ConstInt:
		return fmt.Sprintf("constant %s %d", t.TypeOf(), t.Val)
	case *ir.ConstStr:
		return fmt.Sprintf("constant %s %q", t.TypeOf(), t.Bytes)
	case *ir.ConstZero:
		return fmt.Sprintf("constant %s zeroinitializer", t.TypeOf())
	case *ir.ConstStruct, *ir.ConstArray:
		return fmt.Sprintf("constant %s {...}", v.TypeOf())
	case *ir.Undef:
		return fmt.Sprintf("undef %s", t.TypeOf())
	default:
		return "%" + v.Name()
	}
}
