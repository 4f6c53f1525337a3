package transport

import jsoniter "github.com/json-iterator/go"

var metaJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// Meta is the control-metadata frame every message and end-of-stream marker
// carries (spec §3 "second [frame]: the control metadata"). The video-frame
// attribute/object model and message payload serialization are external
// collaborators (spec §1 Out of scope); Meta is the one small record the
// transport core itself is allowed to interpret, and it treats Opaque as a
// passthrough for whatever richer metadata a caller layers on top.
type Meta struct {
	SeqID  uint64 `json:"seq_id"`
	IsEOS  bool   `json:"is_eos"`
	Opaque []byte `json:"opaque,omitempty"`
}

func encodeMeta(m Meta) ([]byte, error) {
	return metaJSON.Marshal(m)
}

func decodeMeta(b []byte) (Meta, error) {
	var m Meta
	if err := metaJSON.Unmarshal(b, &m); err != nil {
		return Meta{}, err
	}
	return m, nil
}

func eosMeta(seqID uint64) Meta {
	return Meta{SeqID: seqID, IsEOS: true}
}
