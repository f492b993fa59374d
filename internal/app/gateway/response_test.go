package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBody_Checkout(t *testing.T) {
	body, err := DecodeBody([]byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<checkout><code>8CF4BE7DCECEF0F004A6DFA0A8243412</code><date>2010-12-02T10:11:28.000-02:00</date></checkout>`))

	require.NoError(t, err)
	assert.Equal(t, "checkout", body.Root)
	require.NotNil(t, body.Checkout)
	assert.Equal(t, "8CF4BE7DCECEF0F004A6DFA0A8243412", body.Checkout.Code)
	assert.False(t, body.HasErrors())
}

func TestDecodeBody_SingleErrorBecomesList(t *testing.T) {
	body, err := DecodeBody([]byte(`<?xml version="1.0" encoding="ISO-8859-1"?>
<errors><error><code>11013</code><message>senderAreaCode invalid value.</message></error></errors>`))

	require.NoError(t, err)
	assert.True(t, body.HasErrors())
	assert.Equal(t, []ErrorEntry{{Code: "11013", Message: "senderAreaCode invalid value."}}, body.Errors)
}

func TestDecodeBody_ErrorList(t *testing.T) {
	body, err := DecodeBody([]byte(`<errors>
<error><code>11013</code><message>a</message></error>
<error><code>11033</code><message>b</message></error>
</errors>`))

	require.NoError(t, err)
	assert.Len(t, body.Errors, 2)
	assert.Equal(t, "11033", body.Errors[1].Code)
}

func TestDecodeBody_Latin1(t *testing.T) {
	raw := append([]byte(`<?xml version="1.0" encoding="ISO-8859-1"?><errors><error><code>1</code><message>Cart`), 0xE3, 'o')
	raw = append(raw, []byte(`</message></error></errors>`)...)

	body, err := DecodeBody(raw)

	require.NoError(t, err)
	assert.Equal(t, "Cartão", body.Errors[0].Message)
}

func TestDecodeBody_Transaction(t *testing.T) {
	body, err := DecodeBody([]byte(`<transaction>
<date>2011-02-10T16:13:41.000-03:00</date>
<code>9E884542-81B3-4419-9A75-BCC6FB495EF1</code>
<reference>1234</reference>
<status>3</status>
<grossAmount>49900.00</grossAmount>
</transaction>`))

	require.NoError(t, err)
	require.NotNil(t, body.Transaction)
	assert.Equal(t, "9E884542-81B3-4419-9A75-BCC6FB495EF1", body.Transaction.Code)
	assert.Equal(t, "1234", body.Transaction.Reference)
	gross, err := body.Transaction.Gross()
	require.NoError(t, err)
	assert.Equal(t, "49900", gross.String())
}

func TestDecodeBody_EmptyAndInvalid(t *testing.T) {
	body, err := DecodeBody(nil)
	assert.NoError(t, err)
	assert.Nil(t, body)

	_, err = DecodeBody([]byte("Unauthorized"))
	assert.Error(t, err)
}

func TestNewResponse_Flags(t *testing.T) {
	assert.True(t, NewResponse(200, nil).Success)
	assert.True(t, NewResponse(503, nil).ServerError)
	assert.False(t, NewResponse(666, nil).ServerError)
	assert.True(t, NewResponse(408, nil).Timeout)
	assert.True(t, NewResponse(401, nil).Unauthenticated)
	assert.True(t, NewResponse(403, nil).Unauthorized)
	assert.True(t, TimeoutResponse().Timeout)
}

func TestTransactionGross_Invalid(t *testing.T) {
	_, err := (&Transaction{GrossAmount: "abc"}).Gross()
	assert.Error(t, err)
}
