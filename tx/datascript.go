package tx

import (
	"fmt"

	"github.com/bsv-blockchain/go-sdk/script"
)

// DataScript returns an unspendable OP_FALSE OP_RETURN script carrying
// pushes in order.
func DataScript(pushes ...[]byte) ([]byte, error) {
	s := &script.Script{}
	*s = append(*s, script.OpFALSE, script.OpRETURN)
	for _, push := range pushes {
		if err := s.AppendPushData(push); err != nil {
			return nil, fmt.Errorf("tx: OP_RETURN push data: %w", err)
		}
	}
	return []byte(*s), nil
}

// IsDataScript reports whether lockingScript starts with OP_FALSE OP_RETURN.
func IsDataScript(lockingScript []byte) bool {
	return len(lockingScript) >= 2 && lockingScript[0] == script.OpFALSE && lockingScript[1] == script.OpRETURN
}

// IsData reports whether the output is a data carrier.
func (out *Output) IsData() bool {
	return IsDataScript(out.LockingScript)
}
