package closure

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"arrowc/internal/capture"
	"arrowc/internal/hir"
	"arrowc/internal/types"
)

// SlotDescription is one slot of a Description.
type SlotDescription struct {
	Name string `cbor:"1,keyasint" json:"name"`
	Kind string `cbor:"2,keyasint" json:"kind"`
	Type string `cbor:"3,keyasint" json:"type"`
}

// Description is the comparable summary of a compiled closure: what it
// captures and how, the contract it implements and its signature.
type Description struct {
	Name     string            `cbor:"1,keyasint" json:"name"`
	Member   string            `cbor:"2,keyasint" json:"member"`
	Slots    []SlotDescription `cbor:"3,keyasint" json:"slots"`
	Self     int               `cbor:"4,keyasint" json:"self"`
	Contract string            `cbor:"5,keyasint" json:"contract"`
	Method   string            `cbor:"6,keyasint" json:"method"`
	Flavor   string            `cbor:"7,keyasint" json:"flavor"`
	Params   []string          `cbor:"8,keyasint" json:"params"`
	Rest     bool              `cbor:"9,keyasint" json:"rest,omitempty"`
	Result   string            `cbor:"10,keyasint" json:"result"`
	Stage    string            `cbor:"11,keyasint" json:"stage"`
}

// Describe summarizes clo, which reached stage.
func Describe(in *types.Interner, clo *hir.Closure, stage Stage) Description {
	d := Description{
		Name:   clo.Name,
		Member: clo.Member,
		Self:   clo.Self,
		Slots:  make([]SlotDescription, len(clo.Slots)),
		Stage:  stage.String(),
	}
	for i, s := range clo.Slots {
		d.Slots[i] = SlotDescription{Name: s.Name, Kind: s.Kind.String(), Type: in.Label(s.Type)}
	}
	if clo.Contract != nil {
		d.Contract = clo.Contract.Label(in)
		d.Method = clo.Contract.Contract.Method
		d.Flavor = clo.Contract.Contract.Flavor.String()
	}
	if f := clo.Func; f != nil {
		d.Params = make([]string, len(f.Params))
		for i, id := range f.Params {
			d.Params[i] = in.Label(f.Local(id).Type)
		}
		d.Rest = f.Rest
		d.Result = in.Label(f.Result)
	}
	return d
}

// Describe summarizes a closure compiled by c.
func (c *Compiler) Describe(clo *hir.Closure) Description {
	return Describe(c.in, clo, c.stages[clo])
}

// SlotKinds lists the slot kinds in order.
func (d Description) SlotKinds() []capture.Kind {
	out := make([]capture.Kind, len(d.Slots))
	for i, s := range d.Slots {
		for k := capture.ByValueCopy; k <= capture.SelfRecursiveRef; k++ {
			if k.String() == s.Kind {
				out[i] = k
			}
		}
	}
	return out
}

var encMode = func() cbor.EncMode {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// Encode returns the canonical CBOR form of d.
func (d Description) Encode() ([]byte, error) {
	return encMode.Marshal(d)
}

// DecodeDescription parses the output of Encode.
func DecodeDescription(data []byte) (Description, error) {
	var d Description
	if err := cbor.Unmarshal(data, &d); err != nil {
		return Description{}, fmt.Errorf("decode description: %w", err)
	}
	return d, nil
}

// Fingerprint is the hex SHA-256 of the canonical encoding of d. Equal
// descriptions have equal fingerprints.
func (d Description) Fingerprint() (string, error) {
	data, err := d.Encode()
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
