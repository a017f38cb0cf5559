package emit

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/lljvm-go/jvmback/ir"
	"github.com/lljvm-go/jvmback/jtype"
	"github.com/lljvm-go/jvmback/rt"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"
)

// CompileModule runs the per-module lifecycle: module init (header,
// fields, extern decls, constructor, class initialiser, main
// trampoline), per-function emission in module order, and module
// finalisation (a no-op).
func (e *Emitter) CompileModule(ctx context.Context, m *ir.Module, classNameOverride string) (err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "emit: compile module", "module", m.Identifier)
	defer tr.Finish("err", &err)

	e.Module = m
	e.SourceName = filepath.Base(m.Identifier)
	e.ClassName = normalizeClassName(classNameOverride, m.Identifier)

	if err := e.doInitialization(ctx, m); err != nil {
		return errors.Wrap(err, "module init")
	}

	for _, f := range m.Funcs {
		if f.IsDeclaration() {
			continue
		}

		if err := e.CompileFunction(ctx, f); err != nil {
			return errors.Wrap(err, "func %v", f.Name)
		}
	}

	return e.doFinalization(ctx)
}

// normalizeClassName derives the class name from an explicit
// --classname override, or from the module identifier's basename with
// its extension stripped and dots normalised to underscores, then
// converts dots to slashes per §2's "normalise the class name (dots to
// slashes)".
func normalizeClassName(override, identifier string) string {
	name := override

	if name == "" {
		base := filepath.Base(identifier)
		ext := filepath.Ext(base)
		name = strings.TrimSuffix(base, ext)
		name = strings.ReplaceAll(name, ".", "_")
	}

	return strings.ReplaceAll(name, ".", "/")
}

func (e *Emitter) doInitialization(ctx context.Context, m *ir.Module) error {
	e.emitHeader()
	e.emitFields(m)
	e.emitExternMethods(m)
	e.emitConstructor()

	if err := e.emitClassInitializer(ctx, m); err != nil {
		return errors.Wrap(err, "class initialiser")
	}

	if err := e.emitMainTrampoline(m); err != nil {
		return errors.Wrap(err, "main trampoline")
	}

	return nil
}

func (e *Emitter) doFinalization(ctx context.Context) error {
	return nil
}

func (e *Emitter) emitHeader() {
	e.W.Directive("class public final %s", e.ClassName)
	e.W.Directive("super java/lang/Object")
	e.W.Directive("implements %s", rt.CustomLibrary)
	e.W.Blank()

	if e.Debug >= 1 {
		e.W.Directive("source %s", e.SourceName)
	}
}

// emitFields emits one static int field per non-declaration global
// (the backing address into the flat heap) plus the __env instance
// field, and records declaration-only globals in externRefs.
func (e *Emitter) emitFields(m *ir.Module) {
	for _, g := range m.Globals {
		if g.Init == nil {
			e.W.Directive("extern field %s I", e.valueName(g))
			e.externRefs[g] = struct{}{}
			continue
		}

		e.W.Directive("field public static %s I", e.valueName(g))
	}

	e.W.Directive("field private %s Llljvm/runtime/Environment;", "__env")
	e.W.Blank()
}

// emitExternMethods emits ".extern method" for every declaration-only
// function. Intrinsic declarations are not filtered out; they get an
// ".extern method" line like any other declaration.
func (e *Emitter) emitExternMethods(m *ir.Module) {
	for _, f := range m.Funcs {
		if !f.IsDeclaration() {
			continue
		}

		e.externRefs[f] = struct{}{}

		sig, err := e.methodSignature(f)
		if err != nil {
			// Unknown-type declarations are reported but do not abort
			// emission of the rest of the module's extern table; the
			// function would fail loudly the first time it's referenced.
			e.W.Comment(" unsupported extern %s: %v", f.Name, err)
			continue
		}

		e.W.Directive("extern method %s%s", e.valueName(f), sig)
	}

	e.W.Blank()
}

func (e *Emitter) methodSignature(f *ir.Func) (string, error) {
	var sb strings.Builder

	sb.WriteByte('(')

	for _, p := range f.Params {
		d, err := jtype.Descriptor(p.Typ, true)
		if err != nil {
			return "", err
		}
		sb.WriteString(d)
	}

	if f.VarArg {
		sb.WriteByte('I')
	}

	sb.WriteByte(')')

	ret, err := jtype.Descriptor(f.Ret, true)
	if err != nil {
		return "", err
	}
	sb.WriteString(ret)

	return sb.String(), nil
}

func (e *Emitter) emitConstructor() {
	e.W.Directive("method public <init>()V")
	e.W.Insn("aload_0")
	e.W.Insn("invokespecial java/lang/Object/<init>()V")
	e.W.Insn("return")
	e.W.Directive("end method")
	e.W.Blank()
}

// emitClassInitializer emits initialiseEnvironment(Environment), which
// stores the environment into __env, then for each concrete global
// allocates memory, stashes the address into the field, and packs the
// constant initialiser.
func (e *Emitter) emitClassInitializer(ctx context.Context, m *ir.Module) error {
	e.W.Directive("method public initialiseEnvironment(Llljvm/runtime/Environment;)V")
	e.W.Insn("aload_0")
	e.W.Insn("aload_1")
	e.W.Insn("putfield %s/__env Llljvm/runtime/Environment;", e.ClassName)

	for _, g := range m.Globals {
		if g.Init == nil {
			continue
		}

		size, err := e.Layout.AllocSize(g.Typ)
		if err != nil {
			return errors.Wrap(err, "global %v", g.Name)
		}

		e.loadIntLiteral(int64(size))
		e.W.Insn("invokestatic %s", rt.MemoryAllocateData)
		e.W.Insn("putstatic %s/%s I", e.ClassName, e.valueName(g))

		e.W.Insn("getstatic %s/%s I", e.ClassName, e.valueName(g))

		if err := e.packStaticConstant(g.Init); err != nil {
			return errors.Wrap(err, "global %v initialiser", g.Name)
		}

		e.W.Insn("pop")
	}

	e.W.Insn("return")
	e.W.Directive("end method")
	e.W.Blank()

	return nil
}

// emitMainTrampoline instantiates the class, builds an Environment,
// invokes Environment.loadCustomLibrary(this), then calls either
// main()I or main(I, i8*)I, passing the result to lljvm/lib/c/exit(I)V.
func (e *Emitter) emitMainTrampoline(m *ir.Module) error {
	var mainFn *ir.Func
	for _, f := range m.Funcs {
		if f.Name == "main" {
			mainFn = f
			break
		}
	}

	e.W.Directive("method public static main([Ljava/lang/String;)V")
	e.W.Insn("new %s", e.ClassName)
	e.W.Insn("dup")
	e.W.Insn("invokespecial %s/<init>()V", e.ClassName)
	e.W.Insn("astore_1")

	e.W.Insn("new lljvm/runtime/Environment")
	e.W.Insn("dup")
	e.W.Insn("invokespecial lljvm/runtime/Environment/<init>()V")
	e.W.Insn("astore_2")

	e.W.Insn("aload_2")
	e.W.Insn("aload_1")
	e.W.Insn("invokevirtual %s", rt.EnvironmentLoadCustomLibrary)

	if mainFn != nil {
		if err := e.validateMainSignature(mainFn); err != nil {
			return err
		}

		switch len(mainFn.Params) {
		case 0:
			e.W.Insn("invokestatic %s/main()I", e.ClassName)
		case 2:
			e.W.Insn("aload_0")
			e.W.Insn("arraylength")
			e.W.Insn("aload_0")
			e.W.Insn("invokestatic %s", rt.MemoryStoreStack)
			e.W.Insn("invokestatic %s/main(II)I", e.ClassName)
		}

		e.W.Insn("istore_3")

		e.W.Insn("aload_2")
		e.W.Insn("ldc \"%s\"", rt.LibCClass)
		e.W.Insn("invokevirtual %s", rt.EnvironmentGetInstanceByName)
		e.W.Insn("checkcast %s", rt.LibCClass)
		e.W.Insn("iload_3")
		e.W.Insn("invokevirtual %s/exit(I)V", rt.LibCClass)
	}

	e.W.Insn("return")
	e.W.Directive("end method")
	e.W.Blank()

	return nil
}

// validateMainSignature enforces §7's "Invalid main signature" rule:
// main must take 0 args, or exactly (int, i8*) for argc/argv.
func (e *Emitter) validateMainSignature(f *ir.Func) error {
	switch len(f.Params) {
	case 0:
		return nil
	case 2:
		argc, argv := f.Params[0].Typ, f.Params[1].Typ
		if !ir.IsInteger(argc) || !ir.IsPointer(argv) {
			return &InvalidMainSignatureError{Got: f.Params}
		}
		return nil
	default:
		return &InvalidMainSignatureError{Got: f.Params}
	}
}

