package domain

// WebhookAck - body returned for every webhook call
const WebhookAck = "ok"
