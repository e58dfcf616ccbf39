// internal/adapter/emulator/match.go
package emulator

import "github.com/tamzrod/trdp-sim/internal/config"

// Empty address fields and a zero listener com-id act as wildcards.

func matchPd(sub config.PdSubscriberConfig, pub config.PdPublisherConfig) bool {
	if sub.ComIDFilterEnabled() && sub.ComID != 0 && sub.ComID != pub.ComID {
		return false
	}
	if differ(sub.SourceIP, pub.DestIP) {
		return false
	}
	if differ(sub.DestIP, pub.SourceIP) {
		return false
	}
	return true
}

func matchMd(lis config.MdListenerConfig, snd config.MdSenderConfig) bool {
	if lis.ComID != 0 && lis.ComID != snd.ComID {
		return false
	}
	if differ(lis.DestIP, snd.DestIP) {
		return false
	}
	if differ(lis.SourceIP, snd.SourceIP) {
		return false
	}
	return true
}

// differ is true only when both sides are set and not equal.
func differ(a, b string) bool {
	return a != "" && b != "" && a != b
}

func fallback(name, addr string) string {
	if addr == "" {
		return name
	}
	return addr
}
