package gateway

import "strings"

type OutcomeKind string

const (
	OutcomeSuccess       OutcomeKind = "success"
	OutcomeTransient     OutcomeKind = "transient"
	OutcomeAuthFailure   OutcomeKind = "auth_failure"
	OutcomeReported      OutcomeKind = "fatal_reported"
	OutcomeUnrecoverable OutcomeKind = "unrecoverable"
)

const (
	msgUnavailable   = "gateway unavailable"
	msgTimeout       = "gateway did not respond in time"
	msgAuthFailed    = "store authentication with gateway failed"
	msgSendFailed    = "errors occurred while sending data to the gateway"
	msgNoUsableReply = "gateway returned no usable response"
)

// Outcome is the classified result of a checkout call.
type Outcome struct {
	Kind         OutcomeKind
	StatusCode   int
	Message      string
	Messages     []string
	CheckoutCode string
	PaymentURL   string
}

// Fatal marks gateway validation errors that should be shown to the buyer as they
// are rather than treated as a system fault.
func (o Outcome) Fatal() bool {
	return o.Kind == OutcomeReported
}

// Display is the text to surface to the end user.
func (o Outcome) Display() string {
	if len(o.Messages) > 0 {
		return strings.Join(o.Messages, "\n")
	}
	return o.Message
}

// Delivery identifies what was sent, for error reports.
type Delivery struct {
	StoreID     int
	OrderNumber int
	Payload     *Payload
}

var knownErrorMessages = map[string]string{
	"11033": "One or more products in the cart have no name.",
	"11013": "The buyer's postal code does not look valid.",
}

// KnownErrorMessage returns the buyer facing text for a gateway error code.
func KnownErrorMessage(code string) (string, bool) {
	msg, ok := knownErrorMessages[strings.TrimSpace(code)]
	return msg, ok
}

type Classifier struct {
	endpoints Endpoints
}

func NewClassifier(endpoints Endpoints) *Classifier {
	return &Classifier{endpoints: endpoints}
}

// Classify interprets a checkout response. The checks run in a fixed order and the
// first match wins. A non-nil error is always a *DeliveryError.
func (c *Classifier) Classify(resp *Response, d Delivery) (Outcome, error) {
	if resp == nil {
		return c.unrecoverable(0, d, msgNoUsableReply, nil)
	}

	status := resp.StatusCode
	switch {
	case resp.ServerError:
		return Outcome{Kind: OutcomeTransient, StatusCode: status, Message: msgUnavailable}, nil
	case resp.Timeout:
		return Outcome{Kind: OutcomeTransient, StatusCode: status, Message: msgTimeout}, nil
	case resp.Unauthenticated || resp.Unauthorized:
		return Outcome{Kind: OutcomeAuthFailure, StatusCode: status, Message: msgAuthFailed}, nil
	case resp.Success:
		if resp.Body == nil || resp.Body.Checkout == nil || resp.Body.Checkout.Code == "" {
			return c.unrecoverable(status, d, msgNoUsableReply, nil)
		}
		code := resp.Body.Checkout.Code
		return Outcome{
			Kind:         OutcomeSuccess,
			StatusCode:   status,
			CheckoutCode: code,
			PaymentURL:   c.endpoints.PaymentPageURL(code),
		}, nil
	case resp.Body.HasErrors():
		messages, allKnown := describeErrors(resp.Body.Errors)
		if allKnown && len(messages) > 0 {
			return Outcome{Kind: OutcomeReported, StatusCode: status, Messages: messages}, nil
		}
		return c.unrecoverable(status, d, msgSendFailed, messages)
	}

	return c.unrecoverable(status, d, msgNoUsableReply, nil)
}

func describeErrors(entries []ErrorEntry) ([]string, bool) {
	allKnown := true
	messages := make([]string, 0, len(entries))
	for _, entry := range entries {
		if msg, ok := KnownErrorMessage(entry.Code); ok {
			entry.Message = msg
		} else {
			allKnown = false
		}
		messages = append(messages, entry.String())
	}
	return messages, allKnown
}

func (c *Classifier) unrecoverable(status int, d Delivery, message string, errs []string) (Outcome, error) {
	var sent map[string]any
	if d.Payload != nil {
		sent = d.Payload.Render()
	}
	if errs == nil {
		errs = []string{}
	}

	return Outcome{Kind: OutcomeUnrecoverable, StatusCode: status, Message: message, Messages: errs},
		&DeliveryError{
			Message:     message,
			StoreID:     d.StoreID,
			OrderNumber: d.OrderNumber,
			StatusCode:  status,
			Sent:        sent,
			Errors:      errs,
		}
}
