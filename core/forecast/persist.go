package forecast

import (
	"bytes"
	"encoding/gob"
	"time"

	"github.com/devpulse/devpulse/schema"
)

// modelState is the full serializable state of one trained model.
type modelState struct {
	Kind   schema.ModelKind
	AR     *arModel
	Linear *onlineLinear
	Scaler *standardScaler

	// BaseTime anchors the day-offset feature axis. Incremental updates
	// and predictions must keep using the base from the full fit.
	BaseTime      time.Time
	LastTimestamp time.Time

	// RecentMSE holds the squared error of the last incremental updates
	// and drives the forecast confidence band.
	RecentMSE []float64

	Meta schema.ModelMeta
}

func encodeModelState(state *modelState) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(state); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeModelState(blob []byte) (*modelState, error) {
	var state modelState
	if err := gob.NewDecoder(bytes.NewReader(blob)).Decode(&state); err != nil {
		return nil, err
	}
	return &state, nil
}
