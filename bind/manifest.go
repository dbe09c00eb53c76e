package bind

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// cborEncMode uses canonical encoding so a descriptor manifest is
// byte-identical across runs.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("bind: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// MarshalSet serializes a BindingSet to CBOR bytes. Positions and type
// handles are not part of the encoding.
func MarshalSet(s *BindingSet) ([]byte, error) {
	return cborEncMode.Marshal(s)
}

// UnmarshalSet deserializes a BindingSet from CBOR bytes.
func UnmarshalSet(data []byte) (*BindingSet, error) {
	var s BindingSet
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("bind: unmarshal binding set: %w", err)
	}
	return &s, nil
}
