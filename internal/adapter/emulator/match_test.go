// internal/adapter/emulator/match_test.go
package emulator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tamzrod/trdp-sim/internal/config"
)

func TestMatchPd(t *testing.T) {
	off := false

	cases := []struct {
		name string
		sub  config.PdSubscriberConfig
		pub  config.PdPublisherConfig
		want bool
	}{
		{"no filters", config.PdSubscriberConfig{}, config.PdPublisherConfig{ComID: 100}, true},
		{"same com id", config.PdSubscriberConfig{ComID: 100}, config.PdPublisherConfig{ComID: 100}, true},
		{"different com id", config.PdSubscriberConfig{ComID: 101}, config.PdPublisherConfig{ComID: 100}, false},
		{"com id filter off", config.PdSubscriberConfig{ComID: 101, ComIDFilter: &off}, config.PdPublisherConfig{ComID: 100}, true},
		{"zero sub com id", config.PdSubscriberConfig{ComID: 0}, config.PdPublisherConfig{ComID: 7}, true},

		{"source vs dest equal", config.PdSubscriberConfig{SourceIP: "10.0.0.2"}, config.PdPublisherConfig{DestIP: "10.0.0.2"}, true},
		{"source vs dest differ", config.PdSubscriberConfig{SourceIP: "10.0.0.2"}, config.PdPublisherConfig{DestIP: "10.0.0.3"}, false},
		{"source set dest empty", config.PdSubscriberConfig{SourceIP: "10.0.0.2"}, config.PdPublisherConfig{}, true},
		{"source empty dest set", config.PdSubscriberConfig{}, config.PdPublisherConfig{DestIP: "10.0.0.3"}, true},

		{"dest vs source equal", config.PdSubscriberConfig{DestIP: "10.0.0.1"}, config.PdPublisherConfig{SourceIP: "10.0.0.1"}, true},
		{"dest vs source differ", config.PdSubscriberConfig{DestIP: "10.0.0.1"}, config.PdPublisherConfig{SourceIP: "10.0.0.9"}, false},
		{"dest set source empty", config.PdSubscriberConfig{DestIP: "10.0.0.1"}, config.PdPublisherConfig{}, true},

		{"all agree", config.PdSubscriberConfig{ComID: 5, SourceIP: "b", DestIP: "a"}, config.PdPublisherConfig{ComID: 5, SourceIP: "a", DestIP: "b"}, true},
		{"address ok com id wrong", config.PdSubscriberConfig{ComID: 6, SourceIP: "b", DestIP: "a"}, config.PdPublisherConfig{ComID: 5, SourceIP: "a", DestIP: "b"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, matchPd(tc.sub, tc.pub))
		})
	}
}

func TestMatchMd(t *testing.T) {
	cases := []struct {
		name string
		lis  config.MdListenerConfig
		snd  config.MdSenderConfig
		want bool
	}{
		{"wildcard listener", config.MdListenerConfig{}, config.MdSenderConfig{ComID: 9}, true},
		{"same com id", config.MdListenerConfig{ComID: 9}, config.MdSenderConfig{ComID: 9}, true},
		{"different com id", config.MdListenerConfig{ComID: 8}, config.MdSenderConfig{ComID: 9}, false},
		{"dest equal", config.MdListenerConfig{DestIP: "x"}, config.MdSenderConfig{DestIP: "x"}, true},
		{"dest differ", config.MdListenerConfig{DestIP: "x"}, config.MdSenderConfig{DestIP: "y"}, false},
		{"dest one side empty", config.MdListenerConfig{DestIP: "x"}, config.MdSenderConfig{}, true},
		{"source equal", config.MdListenerConfig{SourceIP: "s"}, config.MdSenderConfig{SourceIP: "s"}, true},
		{"source differ", config.MdListenerConfig{SourceIP: "s"}, config.MdSenderConfig{SourceIP: "t"}, false},
		{"dest compared with dest, not source", config.MdListenerConfig{DestIP: "a"}, config.MdSenderConfig{SourceIP: "a", DestIP: "b"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, matchMd(tc.lis, tc.snd))
		})
	}
}

func TestSessionIDLayout(t *testing.T) {
	id := sessionID(0x0102)
	for i := 0; i < 14; i++ {
		assert.Zero(t, id[i])
	}
	assert.Equal(t, byte(0x01), id[14])
	assert.Equal(t, byte(0x02), id[15])
}
