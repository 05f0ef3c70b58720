package backend

import (
	"context"
	"fmt"

	"ueconsole/internal/store"
)

// Valid call actions, as the backend spells them.
const (
	ActionAnswer = "Resume/Answer"
	ActionReject = "Reject/Release"
	ActionHold   = "HoldCall"
)

const (
	udpPortMin = 5000
	udpPortMax = 6000
)

func validateSubscriber(rec store.SubscriberRecord) error {
	switch {
	case rec.IMSI == "":
		return &ValidationError{Field: "imsi", Reason: "must not be empty"}
	case rec.Ki == "":
		return &ValidationError{Field: "ki", Reason: "must not be empty"}
	case rec.OPC == "":
		return &ValidationError{Field: "opc", Reason: "must not be empty"}
	case rec.Expires == "":
		return &ValidationError{Field: "expires", Reason: "must not be empty"}
	case rec.UDPPort < udpPortMin || rec.UDPPort > udpPortMax:
		return &ValidationError{
			Field:  "udpPort",
			Reason: fmt.Sprintf("must be between %d and %d", udpPortMin, udpPortMax),
		}
	}
	return nil
}

// CreateOrUpdateSubscriber provisions a subscriber. Constraint violations are
// rejected here without touching the network. On success the backend returns
// the full updated subscriber list, which the caller applies wholesale.
func (c *Client) CreateOrUpdateSubscriber(ctx context.Context, rec store.SubscriberRecord) ([]store.SubscriberRecord, error) {
	if err := validateSubscriber(rec); err != nil {
		return nil, err
	}

	var clients []store.SubscriberRecord
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(rec).
		SetResult(&clients).
		Post("/portal")
	if err != nil {
		return nil, fmt.Errorf("create subscriber: %w", err)
	}
	if err := checkStatus("create subscriber", resp); err != nil {
		return nil, err
	}
	return clients, nil
}

// DeleteSubscribers sends the identity list. The caller must not drop the
// records locally on return — a fresh snapshot confirms the deletion.
func (c *Client) DeleteSubscribers(ctx context.Context, imsis []string) error {
	if len(imsis) == 0 {
		return &ValidationError{Field: "imsi", Reason: "nothing selected"}
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(imsis).
		Delete("/portal")
	if err != nil {
		return fmt.Errorf("delete subscribers: %w", err)
	}
	return checkStatus("delete subscribers", resp)
}

// SetRegistration asks the backend to register or unregister a line. The
// outcome arrives later as a line event; nothing changes locally here.
func (c *Client) SetRegistration(ctx context.Context, imsi string, unregister bool) error {
	if imsi == "" {
		return &ValidationError{Field: "imsi", Reason: "must not be empty"}
	}

	path := "/register"
	if unregister {
		path = "/unregister"
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("imsi", imsi).
		Put(path)
	if err != nil {
		return fmt.Errorf("set registration: %w", err)
	}
	return checkStatus("set registration", resp)
}

// PlaceCall dials cdpn from the given subscriber. Progress shows up only
// through subsequent call events.
func (c *Client) PlaceCall(ctx context.Context, imsi, cdpn string) error {
	if imsi == "" {
		return &ValidationError{Field: "imsi", Reason: "must not be empty"}
	}
	if cdpn == "" {
		return &ValidationError{Field: "cdpn", Reason: "destination must not be empty"}
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("imsi", imsi).
		SetQueryParam("cdpn", cdpn).
		Put("/call")
	if err != nil {
		return fmt.Errorf("place call: %w", err)
	}
	return checkStatus("place call", resp)
}

// ActOnCall answers, rejects or holds an in-flight call.
func (c *Client) ActOnCall(ctx context.Context, imsi, callID, action string) error {
	if imsi == "" {
		return &ValidationError{Field: "imsi", Reason: "must not be empty"}
	}
	if callID == "" {
		return &ValidationError{Field: "callID", Reason: "must not be empty"}
	}
	switch action {
	case ActionAnswer, ActionReject, ActionHold:
	default:
		return &ValidationError{Field: "action", Reason: "unknown call action"}
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("imsi", imsi).
		SetQueryParam("callID", callID).
		SetQueryParam("action", action).
		Post("/callAction")
	if err != nil {
		return fmt.Errorf("call action: %w", err)
	}
	return checkStatus("call action", resp)
}

// SaveLineConfig pushes the PCSCF socket and IMS domain to the backend.
func (c *Client) SaveLineConfig(ctx context.Context, pcscfSocket, imsDomain string) error {
	if pcscfSocket == "" {
		return &ValidationError{Field: "pcscfSocket", Reason: "must not be empty"}
	}
	if imsDomain == "" {
		return &ValidationError{Field: "imsDomain", Reason: "must not be empty"}
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"pcscfSocket": pcscfSocket,
			"imsDomain":   imsDomain,
		}).
		Post("/portalData")
	if err != nil {
		return fmt.Errorf("save line config: %w", err)
	}
	return checkStatus("save line config", resp)
}
