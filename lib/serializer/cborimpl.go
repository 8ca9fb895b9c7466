package serializer

import (
	"github.com/ValentinKolb/dPickle/lib/common"
	"github.com/fxamacker/cbor/v2"
)

// encMode uses Core Deterministic Encoding (sorted map keys, smallest
// integer encoding), so equal records produce equal bytes
var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("serializer: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("serializer: CBOR decoder initialization failed: " + err.Error())
	}
}

// NewCBORSerializer creates a new serializer using deterministic CBOR
func NewCBORSerializer() ISerializer {
	return &cborSerializerImpl{}
}

// cborSerializerImpl implements the ISerializer interface using CBOR encoding
type cborSerializerImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.ISerializer)
// --------------------------------------------------------------------------

func (c cborSerializerImpl) Serialize(rec common.Record) ([]byte, error) {
	return encMode.Marshal(rec)
}

func (c cborSerializerImpl) Deserialize(b []byte, rec *common.Record) error {
	return decMode.Unmarshal(b, rec)
}
