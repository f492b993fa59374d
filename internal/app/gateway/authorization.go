package gateway

import (
	"encoding/xml"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	ApplicationDefault     = "pagseguro"
	ApplicationAlternative = "pagseguro-alternativo"
)

// ApplicationFor picks the gateway application a store is installed under.
func ApplicationFor(alternative bool) string {
	if alternative {
		return ApplicationAlternative
	}
	return ApplicationDefault
}

// Permissions requested from the merchant when installing the application.
var Permissions = []string{
	"CREATE_CHECKOUTS",
	"SEARCH_TRANSACTIONS",
	"RECEIVE_TRANSACTION_NOTIFICATIONS",
}

// InstallRequest describes the authorization the store asks the merchant for.
type InstallRequest struct {
	StoreID      int
	RedirectBase string
	NextURL      string
	Alternative  bool
}

type authorizationRequestXML struct {
	XMLName     xml.Name     `xml:"authorizationRequest"`
	RedirectURL cdata        `xml:"redirectURL"`
	Reference   string       `xml:"reference"`
	Permissions []permission `xml:"permissions>code"`
}

type permission string

type cdata struct {
	Value string `xml:",cdata"`
}

// BuildAuthorizationRequest renders the XML body of an authorization request.
func BuildAuthorizationRequest(req InstallRequest) ([]byte, error) {
	if strings.TrimSpace(req.NextURL) == "" {
		return nil, &Error{Kind: KindPrecondition, Message: "cannot build authorization request", Cause: ErrMissingNextURL}
	}

	query := url.Values{}
	query.Set("next_url", req.NextURL)
	query.Set("fase_atual", "2")
	if req.Alternative {
		query.Set("ua", "1")
	}

	doc := authorizationRequestXML{
		RedirectURL: cdata{Value: req.RedirectBase + "?" + query.Encode()},
		Reference:   strconv.Itoa(req.StoreID),
	}
	for _, p := range Permissions {
		doc.Permissions = append(doc.Permissions, permission(p))
	}

	body, err := xml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal authorization request: %w", err)
	}
	return append([]byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`), body...), nil
}

// AuthorizationPage turns the authorization request response into the page the
// merchant must visit.
func AuthorizationPage(resp *Response, endpoints Endpoints) (string, error) {
	if resp == nil || !resp.Success || resp.Body == nil || resp.Body.AuthorizationRequest == nil {
		return "", contactError(resp)
	}
	return endpoints.AuthorizationPageURL(resp.Body.AuthorizationRequest.Code), nil
}

// AuthorizationCode extracts the store authorization code granted by the merchant.
func AuthorizationCode(resp *Response) (string, error) {
	if resp == nil || !resp.Success || resp.Body == nil || resp.Body.Authorization == nil {
		return "", contactError(resp)
	}
	return resp.Body.Authorization.Code, nil
}

func contactError(resp *Response) error {
	if resp == nil {
		return &Error{Kind: KindTransient, Message: "could not contact the gateway", Cause: errors.New("no response")}
	}

	var raw string
	if resp.Body != nil {
		raw = string(resp.Body.Raw)
	}
	kind := KindUnrecoverable
	switch {
	case resp.ServerError || resp.Timeout:
		kind = KindTransient
	case resp.Unauthenticated || resp.Unauthorized:
		kind = KindAuth
	}
	return &Error{
		Kind:       kind,
		StatusCode: resp.StatusCode,
		Message:    fmt.Sprintf("error contacting the gateway. status: %d - response: %s", resp.StatusCode, raw),
	}
}
