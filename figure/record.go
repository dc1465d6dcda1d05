package figure

import (
	"bytes"
	"time"

	"github.com/google/uuid"
)

// Record is one figure received from a producer. Its bytes are never
// modified after creation.
type Record struct {
	id       uuid.UUID
	data     []byte
	mimeType MimeType
	received time.Time
}

func newRecord(data []byte, mimeType MimeType, now time.Time) *Record {
	buf := make([]byte, len(data))
	copy(buf, data)
	return &Record{
		id:       uuid.New(),
		data:     buf,
		mimeType: mimeType,
		received: now,
	}
}

func (r *Record) ID() uuid.UUID {
	return r.id
}

// Data returns a copy of the encoded figure.
func (r *Record) Data() []byte {
	buf := make([]byte, len(r.data))
	copy(buf, r.data)
	return buf
}

func (r *Record) Size() int {
	return len(r.data)
}

func (r *Record) MimeType() MimeType {
	return r.mimeType
}

func (r *Record) ReceivedAt() time.Time {
	return r.received
}

// Equal reports whether the record holds exactly data.
func (r *Record) Equal(data []byte) bool {
	return bytes.Equal(r.data, data)
}
