// Package interactions implements the versioned bridge between rendered pages and the studio.
// Pages call window.StudioBridge; the bridge posts messages to the host page, which forwards
// them to the server where the Relay syncs them to the slide's webhook.
package interactions

import (
	"fmt"
	"strings"
)

// ProtocolVersion is the only bridge protocol version accepted
const ProtocolVersion = "v1"

// Capability is one callable of the bridge
type Capability string

const (
	CapabilityTrack          Capability = "track"
	CapabilitySendQuickReply Capability = "sendQuickReply"
	CapabilitySendMessage    Capability = "sendMessage"
)

// Capabilities returns the closed capability set
func Capabilities() []Capability {
	return []Capability{CapabilityTrack, CapabilitySendQuickReply, CapabilitySendMessage}
}

// IsValid reports whether c is part of the protocol
func (c Capability) IsValid() bool {
	for _, known := range Capabilities() {
		if c == known {
			return true
		}
	}
	return false
}

// Interaction is one bridge call forwarded by the host page
type Interaction struct {
	Version    string                 `json:"version"`
	Capability Capability             `json:"capability"`
	Payload    map[string]interface{} `json:"payload"`
}

// Validate checks the version, capability and the fields each capability needs.
// track takes itemId, action and an optional targetUrl; the messaging calls take text.
func (i *Interaction) Validate() error {
	if i.Version == "" {
		i.Version = ProtocolVersion
	}
	if i.Version != ProtocolVersion {
		return fmt.Errorf("unsupported protocol version %q", i.Version)
	}
	if !i.Capability.IsValid() {
		return fmt.Errorf("unknown capability %q", i.Capability)
	}

	switch i.Capability {
	case CapabilityTrack:
		if err := requireString(i.Payload, "itemId"); err != nil {
			return err
		}
		if err := requireString(i.Payload, "action"); err != nil {
			return err
		}
		if v, ok := i.Payload["targetUrl"]; ok && v != nil {
			if _, isString := v.(string); !isString {
				return fmt.Errorf("targetUrl must be a string")
			}
		}
	case CapabilitySendQuickReply, CapabilitySendMessage:
		if err := requireString(i.Payload, "text"); err != nil {
			return err
		}
	}
	return nil
}

func requireString(payload map[string]interface{}, field string) error {
	v, ok := payload[field].(string)
	if !ok || strings.TrimSpace(v) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}
