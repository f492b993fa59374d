package gateway

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
)

// Response is one completed exchange with the gateway, as reported by the transport.
// It is consumed right away and never stored.
type Response struct {
	StatusCode      int
	Success         bool
	ServerError     bool
	Timeout         bool
	Unauthenticated bool
	Unauthorized    bool
	Body            *Body
}

// NewResponse derives the condition flags from the HTTP status.
func NewResponse(statusCode int, body *Body) *Response {
	return &Response{
		StatusCode:      statusCode,
		Success:         statusCode >= 200 && statusCode < 300,
		ServerError:     statusCode >= 500 && statusCode < 600,
		Timeout:         statusCode == 408,
		Unauthenticated: statusCode == 401,
		Unauthorized:    statusCode == 403,
		Body:            body,
	}
}

// TimeoutResponse is what the transport reports when the call did not finish in time.
func TimeoutResponse() *Response {
	return &Response{StatusCode: 408, Timeout: true}
}

// Body is the decoded gateway document. Exactly one of the typed fields is set,
// matching Root.
type Body struct {
	Root                 string
	Checkout             *Checkout
	Errors               []ErrorEntry
	Transaction          *Transaction
	Search               *SearchResult
	AuthorizationRequest *AuthorizationRequestResult
	Authorization        *Authorization
	Raw                  []byte
}

func (b *Body) HasErrors() bool {
	return b != nil && b.Root == "errors"
}

type Checkout struct {
	Code string `xml:"code"`
	Date string `xml:"date"`
}

// ErrorEntry is a gateway validation error.
type ErrorEntry struct {
	Code    string `xml:"code"`
	Message string `xml:"message"`
}

func (e ErrorEntry) String() string {
	return fmt.Sprintf("%s - %s", e.Code, e.Message)
}

// Transaction is the gateway transaction record.
type Transaction struct {
	Code        string `xml:"code"`
	Reference   string `xml:"reference"`
	Status      string `xml:"status"`
	GrossAmount string `xml:"grossAmount"`
	Date        string `xml:"date"`
}

// Gross returns the gross amount when the gateway sent one.
func (t *Transaction) Gross() (*decimal.Decimal, error) {
	if strings.TrimSpace(t.GrossAmount) == "" {
		return nil, nil
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(t.GrossAmount))
	if err != nil {
		return nil, fmt.Errorf("invalid gross amount %q: %w", t.GrossAmount, err)
	}
	return &amount, nil
}

type SearchResult struct {
	Date              string        `xml:"date"`
	CurrentPage       int           `xml:"currentPage"`
	ResultsInThisPage int           `xml:"resultsInThisPage"`
	TotalPages        int           `xml:"totalPages"`
	Transactions      []Transaction `xml:"transactions>transaction"`
}

type AuthorizationRequestResult struct {
	Code string `xml:"code"`
	Date string `xml:"date"`
}

type Authorization struct {
	Code      string `xml:"code"`
	Reference string `xml:"reference"`
	Date      string `xml:"creationDate"`
}

var errEmptyBody = errors.New("empty body")

// DecodeBody parses a gateway XML document. An empty input returns a nil body.
func DecodeBody(raw []byte) (*Body, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	decoder := xml.NewDecoder(bytes.NewReader(raw))
	decoder.CharsetReader = charsetReader

	start, err := rootElement(decoder)
	if err != nil {
		return nil, err
	}

	body := &Body{Root: start.Name.Local, Raw: raw}
	switch body.Root {
	case "checkout":
		body.Checkout = &Checkout{}
		err = decoder.DecodeElement(body.Checkout, start)
	case "errors":
		var doc struct {
			Errors []ErrorEntry `xml:"error"`
		}
		err = decoder.DecodeElement(&doc, start)
		body.Errors = doc.Errors
	case "transaction":
		body.Transaction = &Transaction{}
		err = decoder.DecodeElement(body.Transaction, start)
	case "transactionSearchResult":
		body.Search = &SearchResult{}
		err = decoder.DecodeElement(body.Search, start)
	case "authorizationRequest":
		body.AuthorizationRequest = &AuthorizationRequestResult{}
		err = decoder.DecodeElement(body.AuthorizationRequest, start)
	case "authorization":
		body.Authorization = &Authorization{}
		err = decoder.DecodeElement(body.Authorization, start)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", body.Root, err)
	}

	return body, nil
}

func rootElement(decoder *xml.Decoder) (*xml.StartElement, error) {
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			return nil, errEmptyBody
		}
		if err != nil {
			return nil, fmt.Errorf("read xml: %w", err)
		}
		if start, ok := token.(xml.StartElement); ok {
			return &start, nil
		}
	}
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(label) {
	case "iso-8859-1", "latin1", "latin-1":
		return charmap.ISO8859_1.NewDecoder().Reader(input), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder().Reader(input), nil
	}
	return nil, fmt.Errorf("unsupported charset %q", label)
}
