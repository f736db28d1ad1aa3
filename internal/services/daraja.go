package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/mygigs/mygigs-backend/internal/config"
)

// darajaTimestampLayout is the timestamp format the provider expects inside
// the password credential and the push payload.
const darajaTimestampLayout = "20060102150405"

// DarajaClient talks to the M-Pesa daraja API: OAuth token endpoint and the
// STK push endpoint. It holds no state beyond configuration; every call is
// safe to retry by the caller.
type DarajaClient struct {
	baseURL        string
	consumerKey    string
	consumerSecret string
	shortcode      string
	passkey        string
	callbackURL    string
	client         *http.Client
	now            func() time.Time
}

func NewDarajaClient(cfg *config.Config) *DarajaClient {
	return &DarajaClient{
		baseURL:        cfg.DarajaBaseURL,
		consumerKey:    cfg.ConsumerKey,
		consumerSecret: cfg.ConsumerSecret,
		shortcode:      cfg.BusinessShortcode,
		passkey:        cfg.Passkey,
		callbackURL:    cfg.CallbackURL,
		client:         &http.Client{Timeout: 10 * time.Second},
		now:            time.Now,
	}
}

// Token obtains a bearer token from the OAuth credentials endpoint. No
// caching; callers may cache if they need to.
func (c *DarajaClient) Token(ctx context.Context) (string, error) {
	if c.consumerKey == "" || c.consumerSecret == "" {
		return "", ErrCredentialsMissing
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/oauth/v1/generate?grant_type=client_credentials", nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProviderUnreachable, err)
	}
	req.SetBasicAuth(c.consumerKey, c.consumerSecret)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProviderUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: status %d: %s", ErrProviderUnreachable, resp.StatusCode, string(body))
	}

	var result struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if result.AccessToken == "" {
		return "", fmt.Errorf("%w: no access_token in response", ErrMalformedResponse)
	}

	return result.AccessToken, nil
}

// STKPushAck is the provider's acknowledgement of an initiated push. The two
// request ids are the correlation keys the asynchronous callback carries.
type STKPushAck struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

// Push sends the STK push request. The password credential is the base64 of
// shortcode + passkey + timestamp.
func (c *DarajaClient) Push(ctx context.Context, token, phone string, amount float64, accountRef string) (*STKPushAck, error) {
	timestamp := c.now().Format(darajaTimestampLayout)
	password := base64.StdEncoding.EncodeToString([]byte(c.shortcode + c.passkey + timestamp))

	payload := map[string]string{
		"BusinessShortCode": c.shortcode,
		"Password":          password,
		"Timestamp":         timestamp,
		"TransactionType":   "CustomerPayBillOnline",
		"Amount":            strconv.FormatFloat(amount, 'f', -1, 64),
		"PartyA":            phone,
		"PartyB":            c.shortcode,
		"PhoneNumber":       phone,
		"CallBackURL":       c.callbackURL,
		"AccountReference":  accountRef,
		"TransactionDesc":   "MyGigs freelancer subscription",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderRequestFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/mpesa/stkpush/v1/processrequest", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %d: %s", ErrProviderRequestFailed, resp.StatusCode, string(respBody))
	}

	var ack STKPushAck
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderRequestFailed, err)
	}

	return &ack, nil
}

// STKCallbackEnvelope is the wire shape the provider posts to the callback
// URL.
type STKCallbackEnvelope struct {
	Body struct {
		StkCallback STKCallback `json:"stkCallback"`
	} `json:"Body"`
}

type STKCallback struct {
	MerchantRequestID string           `json:"MerchantRequestID"`
	CheckoutRequestID string           `json:"CheckoutRequestID"`
	ResultCode        int              `json:"ResultCode"`
	ResultDesc        string           `json:"ResultDesc"`
	CallbackMetadata  CallbackMetadata `json:"CallbackMetadata"`
}

// CallbackMetadata is the name/value list present only on successful
// callbacks.
type CallbackMetadata struct {
	Item []CallbackItem `json:"Item"`
}

type CallbackItem struct {
	Name  string      `json:"Name"`
	Value interface{} `json:"Value"`
}

func (m CallbackMetadata) stringValue(name string) string {
	for _, item := range m.Item {
		if item.Name != name {
			continue
		}
		switch v := item.Value.(type) {
		case string:
			return v
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

func (m CallbackMetadata) floatValue(name string) float64 {
	for _, item := range m.Item {
		if item.Name != name {
			continue
		}
		switch v := item.Value.(type) {
		case float64:
			return v
		case string:
			f, _ := strconv.ParseFloat(v, 64)
			return f
		}
	}
	return 0
}

// Receipt returns the provider receipt number.
func (m CallbackMetadata) Receipt() string { return m.stringValue("MpesaReceiptNumber") }

// Phone returns the payer phone number.
func (m CallbackMetadata) Phone() string { return m.stringValue("PhoneNumber") }

// TransactionDate returns the provider transaction timestamp as sent.
func (m CallbackMetadata) TransactionDate() string { return m.stringValue("TransactionDate") }

// Amount returns the confirmed amount.
func (m CallbackMetadata) Amount() float64 { return m.floatValue("Amount") }
