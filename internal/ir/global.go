package ir

// GlobalVar is a module-level storage location. Its primary type is
// always Pointer(trivial_type, mutable=false) — a global var denotes the
// address of its storage, never the storage's value directly — while its
// original type preserves the declared (possibly mutable) pointee type,
// per the primary/original type split every Value carries.
type GlobalVar struct {
	valueBase
	Linkage     Linkage
	IsMutable   bool
	Initializer Constant
}
