// Package codegen lowers the simplified, type-checked AST to IA-32
// assembly text. Grounded on the frame-slot bookkeeping of
// CWBudde-go-dws/internal/bytecode/compiler_core.go (declareLocal,
// beginScope/endScope) for local-variable layout, and on the
// register-file/emitter-driving shape of
// other_examples/smasonuk-sicpu's CodeGen for the walk itself; the
// Sethi-Ullman register strategy and the IA-32 instruction selection
// are new, since neither source targets a real register machine.
package codegen

import (
	"fmt"

	"github.com/cwbudde/go-minic/internal/ast"
	"github.com/cwbudde/go-minic/internal/config"
	"github.com/cwbudde/go-minic/internal/emitter"
	"github.com/cwbudde/go-minic/internal/env"
)

// Generator walks a statement tree and drives an Emitter. It owns the
// running frame offset used to assign each declared variable a stack
// slot, descending as nested blocks are entered and restored as they
// are exited. nregs and deep are the per-run overrides of the register
// file size and the spill-depth sentinel, sourced from config.Options.
type Generator struct {
	em       *emitter.Emitter
	frameTop int
	nregs    int
	deep     int
}

// New returns a Generator configured by opts. A zero opts.NREGS or
// opts.Deep (as from a zero-value config.Options, rather than
// config.Default()) falls back to the emitter's full register file and
// the package's default spill-depth sentinel respectively; opts.NREGS
// is also capped to emitter.NREGS, since regNames/lowByteNames only ever
// have that many physical entries to index into.
func New(opts config.Options) *Generator {
	nregs := opts.NREGS
	if nregs == 0 {
		nregs = emitter.NREGS
	}
	if nregs > emitter.NREGS {
		nregs = emitter.NREGS
	}
	deep := opts.Deep
	if deep == 0 {
		deep = Deep
	}
	return &Generator{em: emitter.New(), nregs: nregs, deep: deep}
}

// Emitter exposes the underlying text sink, e.g. for tests that want to
// inspect emitted output alongside a snapshot.
func (g *Generator) Emitter() *emitter.Emitter {
	return g.em
}

// CompileProgram emits a complete assembly unit for program: the
// standard prologue, the compiled body, and the epilogue, returning the
// full text.
func (g *Generator) CompileProgram(program ast.Stmt) string {
	g.em.Emit(".text")
	g.em.Emit(".globl main")
	g.em.EmitLabel("main")
	g.em.Emit("pushl", "%ebp")
	g.em.Emit("movl", "%esp", "%ebp")

	g.compileStmt(program, 0)

	g.em.Emit("movl", "%ebp", "%esp")
	g.em.Emit("popl", "%ebp")
	g.em.Emit("movl", "$0", "%eax")
	g.em.Emit("ret")
	return g.em.String()
}

func (g *Generator) slotOperand(e *env.Entry) string {
	return fmt.Sprintf("-%d(%%ebp)", e.Slot)
}

// assignSlot gives entry the next frame slot if it does not already
// have one (Slot == 0 is the not-yet-assigned sentinel: the first real
// slot is WordSize, never 0).
func (g *Generator) assignSlot(e *env.Entry) {
	if e.Slot != 0 {
		return
	}
	g.frameTop += emitter.WordSize
	e.Slot = g.frameTop
}

// ---- Statements ----

func (g *Generator) compileStmt(s ast.Stmt, pushed int) {
	switch n := s.(type) {
	case *ast.Seq:
		g.compileStmt(n.First, pushed)
		g.compileStmt(n.Rest, pushed)

	case *ast.VarDecl:
		g.compileVarDecl(n, pushed)

	case *ast.Block:
		saved := g.frameTop
		for _, decl := range n.Decls {
			g.compileVarDecl(decl, pushed)
		}
		if n.Body != nil {
			g.compileStmt(n.Body, pushed)
		}
		g.frameTop = saved

	case *ast.ExprStmt:
		if assign, ok := n.Exp.(*ast.Assign); ok {
			g.compileAssign(assign, pushed)
		} else {
			g.compileExpr(n.Exp, pushed, 0)
		}

	case *ast.Print:
		g.compilePrint(n, pushed)

	case *ast.If:
		lElse := g.em.NewLabel()
		lEnd := g.em.NewLabel()
		g.branchFalse(n.Test, lElse, pushed)
		g.compileStmt(n.Then, pushed)
		g.em.Emit("jmp", lEnd)
		g.em.EmitLabel(lElse)
		if n.Else != nil {
			g.compileStmt(n.Else, pushed)
		}
		g.em.EmitLabel(lEnd)

	case *ast.While:
		lTop := g.em.NewLabel()
		lTest := g.em.NewLabel()
		g.em.Emit("jmp", lTest)
		g.em.EmitLabel(lTop)
		g.compileStmt(n.Body, pushed)
		g.em.EmitLabel(lTest)
		g.branchTrue(n.Test, lTop, pushed)

	default:
		panic(fmt.Sprintf("codegen: unhandled statement %T", s))
	}
}

func (g *Generator) compileVarDecl(n *ast.VarDecl, pushed int) {
	g.assignSlot(n.Entry)
	if n.Init != nil {
		g.compileExpr(n.Init, pushed, 0)
		g.em.Emit("movl", g.em.Reg(0), g.slotOperand(n.Entry))
	}
}

func (g *Generator) compileAssign(n *ast.Assign, pushed int) {
	g.compileExpr(n.RHS, pushed, 0)
	g.em.Emit("movl", g.em.Reg(0), g.slotOperand(n.LHS.Entry))
}

func (g *Generator) compilePrint(n *ast.Print, pushed int) {
	adjust := emitter.AlignmentAdjust(pushed + emitter.WordSize)
	g.em.InsertAdjust(adjust)
	g.compileExpr(n.Exp, pushed+adjust, 0)
	g.em.Emit("pushl", g.em.Reg(0))
	g.em.Call("print", emitter.WordSize)
	g.em.RemoveAdjust(emitter.WordSize)
	g.em.RemoveAdjust(adjust)
}

// ---- Expressions ----

// compileExpr evaluates e and leaves the result in register free,
// without disturbing registers below free. pushed tracks bytes already
// reserved on the stack, for spill bookkeeping.
func (g *Generator) compileExpr(e ast.Expr, pushed, free int) {
	switch n := e.(type) {
	case *ast.IntLit:
		g.em.Emit("movl", fmt.Sprintf("$%d", n.Value), g.em.Reg(free))

	case *ast.BoolLit:
		v := 0
		if n.Value {
			v = 1
		}
		g.em.Emit("movl", fmt.Sprintf("$%d", v), g.em.Reg(free))

	case *ast.Id:
		if n.Entry == nil {
			panic("codegen: unresolved Id reached code generation")
		}
		g.em.Emit("movl", g.slotOperand(n.Entry), g.em.Reg(free))

	case *ast.UnaryOp:
		g.compileUnary(n, pushed, free)

	case *ast.BinOp:
		g.compileBinOp(n, pushed, free)

	case *ast.Assign:
		g.compileExpr(n.RHS, pushed, free)
		g.em.Emit("movl", g.em.Reg(free), g.slotOperand(n.LHS.Entry))

	default:
		panic(fmt.Sprintf("codegen: unhandled expression %T", e))
	}
}

func (g *Generator) compileUnary(n *ast.UnaryOp, pushed, free int) {
	g.compileExpr(n.Operand, pushed, free)
	switch n.Op {
	case ast.Neg:
		g.em.Emit("negl", g.em.Reg(free))
	case ast.BNot:
		g.em.Emit("notl", g.em.Reg(free))
	case ast.LNot:
		g.em.Emit("xorl", "$1", g.em.Reg(free))
	default:
		panic(fmt.Sprintf("codegen: unhandled unary operator %s", n.Op))
	}
}

func (g *Generator) compileBinOp(n *ast.BinOp, pushed, free int) {
	switch n.Op {
	case ast.Lt, ast.Le, ast.Gt, ast.Ge, ast.Eq, ast.Neq:
		g.compileRelationalValue(n, pushed, free)
		return
	case ast.LAnd:
		g.compileShortCircuit(n, pushed, free, true)
		return
	case ast.LOr:
		g.compileShortCircuit(n, pushed, free, false)
		return
	}

	dl := g.getDepth(n.Left)
	dr := g.getDepth(n.Right)
	left, right := n.Left, n.Right
	if n.Op.IsCommutative() && dl < g.deep && dr < g.deep && dr > dl {
		// Evaluate the deeper side first, per the Sethi-Ullman strategy.
		left, right = right, left
	}

	src := g.evalPair(left, right, pushed, free, dl, dr)
	g.emitArith(n.Op, free, src)
	g.releasePair(free, src)
}

// spillScratch picks a register to spill for evalPair's fallback path:
// register 0, unless free is already 0 (in which case every register
// is fair game as scratch since nothing below free needs preserving,
// so the generator's top register is used instead to avoid spilling
// the destination).
func (g *Generator) spillScratch(free int) int {
	if free == 0 {
		return g.nregs - 1
	}
	return 0
}

// getDepth estimates e's Sethi-Ullman register need against this
// generator's configured spill-depth sentinel.
func (g *Generator) getDepth(e ast.Expr) int {
	return getDepth(e, g.deep)
}

// evalPair evaluates left into register free, then right into either
// free+1 (the common case) or a spilled scratch register (when free+1
// would exceed the generator's register file, or when either side's
// depth is indeterminate and strict left-to-right, spill-as-needed
// evaluation is required). It returns the register holding right's
// value; left's value is always left in free. This is the one place
// the "push a register, evaluate using the freed register, pop back"
// spill recipe is implemented, so every two-operand form (arithmetic,
// relational, branch) shares it.
func (g *Generator) evalPair(left, right ast.Expr, pushed, free, dl, dr int) int {
	if free+1 >= g.nregs || dl >= g.deep || dr >= g.deep {
		// left is pushed and right is evaluated into free, so right's
		// evaluation only touches registers from free upward and every
		// register below free stays intact. Two exchanges with the stack
		// top then put left back in free and right in scratch, leaving
		// scratch's previous value on the stack for releasePair to pop.
		scratch := g.spillScratch(free)
		g.compileExpr(left, pushed, free)
		g.em.Emit("pushl", g.em.Reg(free))
		g.compileExpr(right, pushed+emitter.WordSize, free)
		g.em.Emit("xchgl", g.em.Reg(free), "(%esp)")
		g.em.Emit("xchgl", g.em.Reg(scratch), "(%esp)")
		return scratch
	}
	g.compileExpr(left, pushed, free)
	g.compileExpr(right, pushed, free+1)
	return free + 1
}

// releasePair undoes the scratch-register spill evalPair performed, if
// src indicates one happened (src is neither free nor free+1).
func (g *Generator) releasePair(free, src int) {
	if src != free+1 {
		g.em.Emit("popl", g.em.Reg(src))
	}
}

func (g *Generator) emitArith(op ast.Operator, dst, src int) {
	switch op {
	case ast.Add:
		g.em.Emit("addl", g.em.Reg(src), g.em.Reg(dst))
	case ast.Sub:
		g.em.Emit("subl", g.em.Reg(src), g.em.Reg(dst))
	case ast.Mul:
		g.em.Emit("imull", g.em.Reg(src), g.em.Reg(dst))
	case ast.BAnd:
		g.em.Emit("andl", g.em.Reg(src), g.em.Reg(dst))
	case ast.BOr:
		g.em.Emit("orl", g.em.Reg(src), g.em.Reg(dst))
	case ast.BXor:
		g.em.Emit("xorl", g.em.Reg(src), g.em.Reg(dst))
	default:
		panic(fmt.Sprintf("codegen: unhandled arithmetic operator %s", op))
	}
}

// compileRelationalValue produces a 0/1 value for a relational operator
// used outside a branching context (e.g. assigned to a boolean
// variable), via cmp + setCC + zero-extend.
func (g *Generator) compileRelationalValue(n *ast.BinOp, pushed, free int) {
	dl := g.getDepth(n.Left)
	dr := g.getDepth(n.Right)
	src := g.evalPair(n.Left, n.Right, pushed, free, dl, dr)
	g.em.Emit("cmpl", g.em.Reg(src), g.em.Reg(free))
	g.releasePair(free, src)
	g.em.Emit(setCC(n.Op), g.em.LowByte(free))
	g.em.Emit("movzbl", g.em.LowByte(free), g.em.Reg(free))
}

func setCC(op ast.Operator) string {
	switch op {
	case ast.Eq:
		return "sete"
	case ast.Neq:
		return "setne"
	case ast.Lt:
		return "setl"
	case ast.Le:
		return "setle"
	case ast.Gt:
		return "setg"
	case ast.Ge:
		return "setge"
	default:
		panic(fmt.Sprintf("codegen: unhandled relational operator %s", op))
	}
}

// compileShortCircuit produces a 0/1 value for LAnd (isAnd true) or LOr
// (isAnd false) without evaluating the right operand when the left
// operand already decides the result.
func (g *Generator) compileShortCircuit(n *ast.BinOp, pushed, free int, isAnd bool) {
	lSkip := g.em.NewLabel()
	lEnd := g.em.NewLabel()

	g.compileExpr(n.Left, pushed, free)
	g.em.Emit("testl", g.em.Reg(free), g.em.Reg(free))
	if isAnd {
		g.em.Emit("je", lSkip)
	} else {
		g.em.Emit("jne", lSkip)
	}
	g.compileExpr(n.Right, pushed, free)
	g.em.Emit("jmp", lEnd)
	g.em.EmitLabel(lSkip)
	if isAnd {
		g.em.Emit("movl", "$0", g.em.Reg(free))
	} else {
		g.em.Emit("movl", "$1", g.em.Reg(free))
	}
	g.em.EmitLabel(lEnd)
}

// ---- Branching forms ----

// branchFalse jumps to label if test evaluates to false (zero).
func (g *Generator) branchFalse(test ast.Expr, label string, pushed int) {
	switch n := test.(type) {
	case *ast.BinOp:
		switch n.Op {
		case ast.Lt, ast.Le, ast.Gt, ast.Ge, ast.Eq, ast.Neq:
			g.branchRelational(n, label, pushed, false)
			return
		case ast.LAnd:
			lNext := g.em.NewLabel()
			g.branchFalse(n.Left, label, pushed)
			g.em.EmitLabel(lNext)
			g.branchFalse(n.Right, label, pushed)
			return
		case ast.LOr:
			lTrue := g.em.NewLabel()
			g.branchTrue(n.Left, lTrue, pushed)
			g.branchFalse(n.Right, label, pushed)
			g.em.EmitLabel(lTrue)
			return
		}
	case *ast.UnaryOp:
		if n.Op == ast.LNot {
			g.branchTrue(n.Operand, label, pushed)
			return
		}
	}
	g.compileExpr(test, pushed, 0)
	g.em.Emit("testl", g.em.Reg(0), g.em.Reg(0))
	g.em.Emit("je", label)
}

// branchTrue jumps to label if test evaluates to true (non-zero).
func (g *Generator) branchTrue(test ast.Expr, label string, pushed int) {
	switch n := test.(type) {
	case *ast.BinOp:
		switch n.Op {
		case ast.Lt, ast.Le, ast.Gt, ast.Ge, ast.Eq, ast.Neq:
			g.branchRelational(n, label, pushed, true)
			return
		case ast.LAnd:
			lFalse := g.em.NewLabel()
			g.branchFalse(n.Left, lFalse, pushed)
			g.branchTrue(n.Right, label, pushed)
			g.em.EmitLabel(lFalse)
			return
		case ast.LOr:
			lNext := g.em.NewLabel()
			g.branchTrue(n.Left, label, pushed)
			g.em.EmitLabel(lNext)
			g.branchTrue(n.Right, label, pushed)
			return
		}
	case *ast.UnaryOp:
		if n.Op == ast.LNot {
			g.branchFalse(n.Operand, label, pushed)
			return
		}
	}
	g.compileExpr(test, pushed, 0)
	g.em.Emit("testl", g.em.Reg(0), g.em.Reg(0))
	g.em.Emit("jne", label)
}

// branchRelational emits cmp + the appropriate conditional jump
// directly, instead of materializing a 0/1 value first.
func (g *Generator) branchRelational(n *ast.BinOp, label string, pushed int, sense bool) {
	dl := g.getDepth(n.Left)
	dr := g.getDepth(n.Right)
	src := g.evalPair(n.Left, n.Right, pushed, 0, dl, dr)
	g.em.Emit("cmpl", g.em.Reg(src), g.em.Reg(0))
	g.releasePair(0, src)
	g.em.Emit(jcc(n.Op, sense), label)
}

func jcc(op ast.Operator, sense bool) string {
	if sense {
		switch op {
		case ast.Eq:
			return "je"
		case ast.Neq:
			return "jne"
		case ast.Lt:
			return "jl"
		case ast.Le:
			return "jle"
		case ast.Gt:
			return "jg"
		case ast.Ge:
			return "jge"
		}
	} else {
		switch op {
		case ast.Eq:
			return "jne"
		case ast.Neq:
			return "je"
		case ast.Lt:
			return "jge"
		case ast.Le:
			return "jg"
		case ast.Gt:
			return "jle"
		case ast.Ge:
			return "jl"
		}
	}
	panic(fmt.Sprintf("codegen: unhandled relational operator %s", op))
}
