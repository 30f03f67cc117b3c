package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func postEmail(router http.Handler, payload string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/email", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestEmailWebhookProcessesTurn(t *testing.T) {
	oracle := &cannedOracle{
		classifyResp: "CASE_MANAGER",
		extractResp:  `{"patient_name":"Yuya"}`,
		questionResp: "Could you share the addresses and authorization number?",
	}
	fx := newServerFixture(oracle)

	payload := `{"data":{"sender":"Jane Doe <jane@example.com>","preview":{"body":"Transport for Yuya please"}}}`
	rr := postEmail(fx.server.Router(), payload)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	resp := decodeAPIResponse(t, rr)
	if resp.Status != "ok" {
		t.Errorf("expected ok status, got %+v", resp)
	}

	if len(fx.email.sent) != 1 {
		t.Fatalf("expected one outbound email, got %d", len(fx.email.sent))
	}
	if fx.email.sent[0] != "Could you share the addresses and authorization number?" {
		t.Errorf("expected the follow-up question, got %q", fx.email.sent[0])
	}
	if len(fx.sms.sent) != 0 {
		t.Error("email turn must not touch the SMS channel")
	}
}

func TestEmailWebhookExtractsAddressFromDisplayString(t *testing.T) {
	oracle := &cannedOracle{
		classifyResp: "CASE_MANAGER",
		extractResp:  `{"patient_name":"Yuya","pickup_address":"NY","drop_off_address":"NY","authorization_number":"8","appointment_date":"2028-01-04"}`,
	}
	fx := newServerFixture(oracle)

	payload := `{"data":{"sender":"\"Doe, Jane\" <jane@example.com>","preview":{"body":"All details attached"}}}`
	rr := postEmail(fx.server.Router(), payload)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	rec, err := fx.st.GetIntake("jane@example.com", "INSURANCE_CASE_MANAGERS")
	if err != nil || rec == nil {
		t.Fatalf("expected record keyed by the bare address, got %v (err %v)", rec, err)
	}
}

func TestEmailWebhookRejectsBadPayloads(t *testing.T) {
	fx := newServerFixture(&cannedOracle{})
	router := fx.server.Router()

	cases := []string{
		`not json`,
		`{"data":{"sender":"no address here","preview":{"body":"hello"}}}`,
		`{"data":{"sender":"jane@example.com","preview":{"body":"  "}}}`,
	}
	for _, payload := range cases {
		if rr := postEmail(router, payload); rr.Code != http.StatusBadRequest {
			t.Errorf("payload %q: expected 400, got %d", payload, rr.Code)
		}
	}
	if len(fx.email.sent) != 0 {
		t.Error("rejected webhook must not send")
	}
}

func TestEmailWebhookNotConfigured(t *testing.T) {
	fx := newServerFixture(&cannedOracle{})
	server := NewServer(fx.server.orchestrator, nil, nil, nil, fx.st)

	rr := postEmail(server.Router(), `{"data":{"sender":"jane@example.com","preview":{"body":"hello"}}}`)
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rr.Code)
	}
}
