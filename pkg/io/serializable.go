package io

// Serializable defines a binary encoding/decoding contract used
// throughout the codec: transactions, witnesses, signers, scripts and
// NEF files all implement it so they can be pushed through BinWriter/
// BinReader and through the generic array helpers below.
type Serializable interface {
	EncodeBinary(w *BinWriter)
	DecodeBinary(r *BinReader)
}

// WriteArray writes a var_int length prefix followed by each element's
// own encoding, mirroring write_list<T> from spec.md §4.1. Go generics
// stand in here for the teacher's reflection-based WriteArray: the
// element type is known at compile time, so there is no need to walk
// the value with reflect and panic on an unexpected shape.
func WriteArray[T Serializable](w *BinWriter, arr []T) {
	w.WriteVarUint(uint64(len(arr)))
	for i := range arr {
		arr[i].EncodeBinary(w)
	}
}

// ReadArray reads a var_int length prefix and decodes that many
// elements via newElem, the inverse of WriteArray. maxCount, if given,
// caps the accepted length to guard against adversarial inputs; it
// defaults to MaxArraySize.
func ReadArray[T Serializable](r *BinReader, newElem func() T, maxCount ...int) []T {
	max := MaxArraySize
	if len(maxCount) > 0 {
		max = maxCount[0]
	}
	n := r.ReadVarUint()
	if r.Err != nil {
		return nil
	}
	if n > uint64(max) {
		r.fail(ErrArrayTooBig)
		return nil
	}
	arr := make([]T, 0, n)
	for i := uint64(0); i < n; i++ {
		el := newElem()
		el.DecodeBinary(r)
		if r.Err != nil {
			return nil
		}
		arr = append(arr, el)
	}
	return arr
}
