package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goldenstatemt/intakeflow/internal/models"
)

func postStore(router http.Handler, payload string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/store", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestStoreRecordDirectUpsert(t *testing.T) {
	fx := newServerFixture(&cannedOracle{})

	payload := `{
		"intent": "INSURANCE_CASE_MANAGERS",
		"data": {
			"channel": "sms",
			"contact_info": "+15550001111",
			"fields": {"patient_name": "Yuya", "authorization_number": "8"},
			"status": "complete"
		}
	}`
	rr := postStore(fx.server.Router(), payload)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	resp := decodeAPIResponse(t, rr)
	if resp.Status != "recorded" {
		t.Errorf("expected recorded status, got %+v", resp)
	}

	rec, err := fx.st.GetIntake("+15550001111", models.IntentCaseManager)
	if err != nil || rec == nil {
		t.Fatalf("expected stored record, got %v (err %v)", rec, err)
	}
	if rec.Fields["patient_name"] != "Yuya" {
		t.Errorf("fields not stored: %v", rec.Fields)
	}
}

func TestStoreRecordIntentFromData(t *testing.T) {
	fx := newServerFixture(&cannedOracle{})

	payload := `{"data":{"contact_info":"+15550001111","intent":"DISCHARGE","fields":{"patient_name":"Ken"}}}`
	rr := postStore(fx.server.Router(), payload)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	rec, err := fx.st.GetIntake("+15550001111", models.IntentDischarge)
	if err != nil || rec == nil {
		t.Fatalf("expected record under the embedded intent, got %v (err %v)", rec, err)
	}
}

func TestStoreRecordRejectsBadPayloads(t *testing.T) {
	fx := newServerFixture(&cannedOracle{})
	router := fx.server.Router()

	cases := []string{
		`not json`,
		`{"intent":"INSURANCE_CASE_MANAGERS","data":{"fields":{}}}`,
		`{"data":{"contact_info":"+15550001111"}}`,
		`{"intent":"GIBBERISH","data":{"contact_info":"+15550001111"}}`,
	}
	for _, payload := range cases {
		if rr := postStore(router, payload); rr.Code != http.StatusBadRequest {
			t.Errorf("payload %q: expected 400, got %d", payload, rr.Code)
		}
	}
}
