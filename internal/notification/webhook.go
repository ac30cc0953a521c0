package notification

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"os"
)

// Lifecycle events worth alerting on.
const (
	EventAccepted  = "agreement.accepted"
	EventCountered = "agreement.countered"
)

// SendAgreementAlert posts a lifecycle event to the configured webhook.
// Delivery is best-effort; failures are logged and swallowed.
func SendAgreementAlert(event string, agreementID, projectID uint) {
	url := os.Getenv("NOTIFY_WEBHOOK_URL")
	if url == "" {
		return
	}

	payload := map[string]any{
		"event":       event,
		"agreementId": agreementID,
		"projectId":   projectID,
	}
	body, _ := json.Marshal(payload)

	resp, err := http.Post(url, "application/json", bytes.NewBuffer(body))
	if err != nil {
		log.Printf("failed to send webhook: %v", err)
		return
	}
	defer resp.Body.Close()
}
