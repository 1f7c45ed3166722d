package marker

import (
	"fmt"
	"sync/atomic"

	"asmemit/internal/diag"
	"asmemit/internal/source"
	"asmemit/internal/symbols"
)

// realized is the published outcome of realizing one kind.
type realized struct {
	typ        *symbols.Type
	fromSource bool
	held       []diag.Diagnostic
}

// Registry is the open injected-type set of one emission pass.
type Registry struct {
	comp   symbols.Compilation
	needs  [kindCount]atomic.Bool
	slots  [kindCount]atomic.Pointer[realized]
	sealed atomic.Bool
	frozen atomic.Pointer[Snapshot]
}

// NewRegistry binds a registry to comp.
func NewRegistry(comp symbols.Compilation) *Registry {
	return &Registry{comp: comp}
}

// Ensure records that k is needed. Safe for concurrent use; panics with
// *ContractViolation once the registry is sealed.
func (r *Registry) Ensure(k Kind) {
	if !k.Valid() {
		panic(violation("Ensure", k, "unknown marker kind"))
	}
	if r.sealed.Load() {
		panic(violation("Ensure", k, "marker requested after injected types were frozen"))
	}
	r.needs[k].Store(true)
}

// Needs reports whether k has been requested.
func (r *Registry) Needs(k Kind) bool {
	return k.Valid() && r.needs[k].Load()
}

// Realize returns the symbol for k, building it on first use. Every caller
// observes the same *symbols.Type. The result may be a user declaration
// (PolicyDefer) or an error placeholder.
func (r *Registry) Realize(k Kind) *symbols.Type {
	if !k.Valid() {
		panic(violation("Realize", k, "unknown marker kind"))
	}
	if cur := r.slots[k].Load(); cur != nil {
		return cur.typ
	}
	if r.sealed.Load() {
		panic(violation("Realize", k, "marker realized after injected types were frozen"))
	}
	r.needs[k].Store(true)
	return r.realize(k).typ
}

func (r *Registry) realize(k Kind) *realized {
	if cur := r.slots[k].Load(); cur != nil {
		return cur
	}
	if k != KindEmbedded {
		r.needs[KindEmbedded].Store(true)
	}
	cand := r.build(k)
	if r.slots[k].CompareAndSwap(nil, cand) {
		return cand
	}
	return r.slots[k].Load()
}

// build constructs a candidate without publishing it. Diagnostics are held on
// the candidate so that a losing candidate reports nothing.
func (r *Registry) build(k Kind) *realized {
	desc := descriptors[k]
	var held []diag.Diagnostic

	if user, ok := r.comp.LookupSourceType(desc.ReservedName); ok && !user.IsError() {
		if desc.Policy == PolicyDefer {
			return &realized{typ: user, fromSource: true}
		}
		held = append(held, diag.NewError(diag.EmitTypeReserved, user.Decl,
			fmt.Sprintf("the type name '%s' is reserved to be used by the compiler", desc.ReservedName)))
	}

	base := r.comp.WellKnownType(symbols.AttributeType)
	if base.IsError() {
		return &realized{typ: placeholder(desc.ReservedName, base), held: held}
	}

	typ := &symbols.Type{
		FullName: desc.ReservedName,
		Kind:     symbols.TypeSynthesized,
		Decl:     source.NoSpan,
		Base:     base,
	}
	typ.Ctors = []*symbols.Method{{Name: symbols.CtorName, Owner: typ}}
	if desc.Ctors != nil {
		for _, m := range desc.Ctors(r.comp, typ) {
			for _, p := range m.Params {
				if p.Type.IsError() {
					return &realized{typ: placeholder(desc.ReservedName, p.Type), held: held}
				}
			}
			typ.Ctors = append(typ.Ctors, m)
		}
	}
	return &realized{typ: typ, held: held}
}

// placeholder wraps an unresolved dependency into an error type for name.
func placeholder(name string, cause *symbols.Type) *symbols.Type {
	errTyp := symbols.NewErrorType(name)
	if cause != nil && cause.UseSite != nil {
		d := *cause.UseSite
		errTyp.UseSite = &d
	}
	return errTyp
}

// Freeze seals the registry and returns the injected-type snapshot. The first
// call to publish reports the held diagnostics into sink; later calls return
// the same snapshot and report nothing.
func (r *Registry) Freeze(sink diag.Reporter) *Snapshot {
	if s := r.frozen.Load(); s != nil {
		return s
	}
	r.sealed.Store(true)

	for k := KindIsReadOnly; k < kindCount; k++ {
		if r.needs[k].Load() {
			r.realize(k)
		}
	}
	if r.needs[KindEmbedded].Load() {
		r.realize(KindEmbedded)
	}

	snap := &Snapshot{}
	var pending []diag.Diagnostic
	for k := range kindCount {
		if !r.needs[k].Load() {
			continue
		}
		res := r.realize(k)
		pending = append(pending, res.held...)
		switch {
		case res.typ.IsError():
			if res.typ.UseSite != nil {
				d := *res.typ.UseSite
				d.Primary = source.NoSpan
				pending = append(pending, d)
			}
		case res.fromSource:
		default:
			snap.byKind[k] = res.typ
			snap.types = append(snap.types, res.typ)
		}
	}

	if r.frozen.CompareAndSwap(nil, snap) {
		for _, d := range pending {
			d.Emit(sink)
		}
		return snap
	}
	return r.frozen.Load()
}

// Snapshot returns the frozen set, or nil before Freeze.
func (r *Registry) Snapshot() *Snapshot {
	return r.frozen.Load()
}
