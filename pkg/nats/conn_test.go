package nats

import (
	"testing"

	"ux-collector-be/pkg/events"

	"github.com/stretchr/testify/assert"
)

func TestSubjectRoundTrip(t *testing.T) {
	tests := []string{events.RecordStored, events.StoreSwept}

	for _, typ := range tests {
		t.Run(typ, func(t *testing.T) {
			subject := Subject(typ)

			assert.Equal(t, "events."+typ, subject)
			assert.Equal(t, typ, EventTypeOf(subject))
		})
	}
}
