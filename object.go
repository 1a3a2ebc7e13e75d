package cycgc

// object is the type-erased view of a heap object header. Go interfaces
// already carry a vtable, so erasing the payload type needs no fat-pointer
// or metadata-word tricks: header[T] implements object for every T, and
// the engine's lists and collector dispatch trace/finalize/destroy through
// it without knowing the static payload type.
type object interface {
	base() *headerBase
	trace(ctx *Context)
	finalize()
	destroy()
}

// headerBase holds everything the engine needs to know about a heap object
// without knowing its payload type: list linkage, the counter/mark word, the
// optional weak metadata block, and the cached allocation size used for the
// byte-threshold heuristic in config.go. It is embedded in every header[T].
type headerBase struct {
	next, prev object
	mark       markWord
	weak       *weakMeta
	size       uintptr
	eng        *Engine
}

func (b *headerBase) base() *headerBase { return b }

// getNext/getPrev/setNext/setPrev exist so list.go can manipulate linkage
// through the object interface without reaching into headerBase's fields
// directly.
func getNext(o object) object    { return o.base().next }
func setNext(o object, n object) { o.base().next = n }
func getPrev(o object) object    { return o.base().prev }
func setPrev(o object, p object) { o.base().prev = p }

// header is the concrete, type-erasing wrapper around a payload value T.
// Strong[T] and Weak[T] both point at a header[T]; the engine's lists and
// collector only ever see it through the object interface.
type header[T Traceable] struct {
	headerBase
	value T
}

func newHeader[T Traceable](eng *Engine, value T, alreadyFinalized bool) *header[T] {
	h := &header[T]{
		headerBase: headerBase{mark: newMarkWord(), size: approxSize(value), eng: eng},
		value:      value,
	}
	h.mark.setFinalized(alreadyFinalized)
	return h
}

// newInvalidHeader allocates a header whose mark is Invalid and whose value
// is the zero value of T, used by NewCyclic to hand out a Strong[T] before
// the constructor closure has produced a real value.
func newInvalidHeader[T Traceable](eng *Engine) *header[T] {
	var zero T
	return &header[T]{headerBase: headerBase{mark: newInvalidMarkWord(), eng: eng}, value: zero}
}

func (h *header[T]) engine() *Engine { return h.eng }

func (h *header[T]) trace(ctx *Context) { h.value.Trace(ctx) }

func (h *header[T]) finalize() {
	if f, ok := any(h.value).(Finalizer); ok {
		f.Finalize()
	}
}

// destroy runs the payload's Destroyer hook, if any, then clears the
// payload. Go never releases a struct's fields implicitly: a payload that
// embeds Strong[U] or Weak[U] fields must implement Destroyer and call
// Release on each of them itself.
func (h *header[T]) destroy() {
	if d, ok := any(h.value).(Destroyer); ok {
		d.Destroy()
	}
	var zero T
	h.value = zero
}

// approxSize is a best-effort estimate of a payload's footprint used only to
// feed the allocated-bytes heuristic; it is not required to be exact.
func approxSize[T any](v T) uintptr {
	return sizeOf(v)
}
