// Package rt centralizes the symbolic names of the JVM runtime contract
// this backend emits references to. Every class, field, and method the
// emitter invokes by name lives here, so the rest of the backend never
// builds these strings ad hoc.
package rt

const (
	MemoryClass      = "lljvm/runtime/Memory"
	FunctionClass    = "lljvm/runtime/Function"
	InstructionClass = "lljvm/runtime/Instruction"
	JumpClass        = "lljvm/runtime/Jump"
	UnwindClass      = "lljvm/runtime/System$Unwind"
	UnwindSingleton  = "lljvm/runtime/Instruction$Unwind"
	UnreachableClass = "lljvm/runtime/Instruction$Unreachable"
	CustomLibrary    = "lljvm/runtime/CustomLibrary"
	EnvironmentClass = "lljvm/runtime/Environment"
	LibCClass        = "lljvm/lib/c"

	MathClass   = "java/lang/Math"
	DoubleClass = "java/lang/Double"
	FloatClass  = "java/lang/Float"

	// CLASSFORMETHOD is passed to Function.getFunctionPointer as the
	// owning class of an extern (declaration-only) function, whose
	// defining class is not known at emit time; a locally defined
	// function passes the current classname instead.
	CLASSFORMETHOD = "CLASSFORMETHOD"
)

// Method is a fully qualified "Class/name(desc)ret" reference.
type Method struct {
	Class string
	Name  string
	Desc  string
}

func (m Method) String() string { return m.Class + "/" + m.Name + m.Desc }

var (
	MemoryAllocateData      = Method{MemoryClass, "allocateData", "(I)I"}
	MemoryAllocateStack     = Method{MemoryClass, "allocateStack", "(I)I"}
	MemoryCreateStackFrame  = Method{MemoryClass, "createStackFrame", "()V"}
	MemoryDestroyStackFrame = Method{MemoryClass, "destroyStackFrame", "()V"}
	MemoryZero              = Method{MemoryClass, "zero", "(II)I"}
	MemoryStore             = Method{MemoryClass, "store", "(I%s)V"} // %s = type descriptor
	MemoryStoreStack        = Method{MemoryClass, "storeStack", "([Ljava/lang/String;)I"}
	MemoryCopy              = Method{MemoryClass, "memcpy", "(IIII)V"}
	MemoryMove              = Method{MemoryClass, "memmove", "(IIII)V"}
	MemorySet               = Method{MemoryClass, "memset", "(IBII)V"}

	FunctionGetFunctionPointer = Method{FunctionClass, "getFunctionPointer", "(Ljava/lang/String;Ljava/lang/String;)I"}

	EnvironmentLoadCustomLibrary = Method{EnvironmentClass, "loadCustomLibrary", "(L" + CustomLibrary + ";)V"}
	EnvironmentGetInstanceByName = Method{EnvironmentClass, "getInstanceByName", "(Ljava/lang/String;)L" + CustomLibrary + ";"}
)

// MemoryLoad returns the "Memory.load_<postfix>(I)T" method for a given
// postfix/descriptor pair.
func MemoryLoad(postfix, desc string) Method {
	return Method{MemoryClass, "load_" + postfix, "(I)" + desc}
}

// MemoryPack returns "Memory.pack(I,T)I" for a given type descriptor, or
// the String/char-array overloads when desc is "Ljava/lang/String;" or
// "[C".
func MemoryPack(desc string) Method {
	return Method{MemoryClass, "pack", "(I" + desc + ")I"}
}

// FunctionInvoke returns "Function.invoke_<postfix>(II)T" for an
// indirect call returning type desc.
func FunctionInvoke(postfix, desc string) Method {
	return Method{FunctionClass, "invoke_" + postfix, "(II)" + desc}
}

// InstructionVirtual returns a virtual instruction helper — an assembly
// mnemonic this backend invents, lowered to invokestatic
// Instruction/<mnemonic> — with the given descriptor.
func InstructionVirtual(mnemonic, desc string) Method {
	return Method{InstructionClass, mnemonic, desc}
}

// MathMethod returns "java/lang/Math/<name>(desc)D", used by the
// pow/exp/log/log10/sqrt intrinsics, which always operate on doubles.
func MathMethod(name string) Method {
	desc := "(D)D"
	if name == "pow" {
		desc = "(DD)D"
	}
	return Method{MathClass, name, desc}
}
