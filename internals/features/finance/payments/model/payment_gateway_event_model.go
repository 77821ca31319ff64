package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type GatewayEventStatus string

const (
	GatewayEventReceived  GatewayEventStatus = "received"
	GatewayEventProcessed GatewayEventStatus = "processed"
	GatewayEventIgnored   GatewayEventStatus = "ignored"
	GatewayEventFailed    GatewayEventStatus = "failed"
)

// PaymentGatewayEventModel logs every webhook call as received, for debugging and replay.
type PaymentGatewayEventModel struct {
	GatewayEventID             uuid.UUID          `gorm:"column:gateway_event_id;type:uuid;default:gen_random_uuid();primaryKey" json:"gateway_event_id"`
	GatewayEventTransactionID  *uuid.UUID         `gorm:"column:gateway_event_transaction_id;type:uuid;index" json:"gateway_event_transaction_id,omitempty"`
	GatewayEventProvider       PaymentGateway     `gorm:"column:gateway_event_provider;type:varchar(20);not null" json:"gateway_event_provider"`
	GatewayEventType           string             `gorm:"column:gateway_event_type;size:80" json:"gateway_event_type"`
	GatewayEventOrderID        *string            `gorm:"column:gateway_event_order_id;size:120;index" json:"gateway_event_order_id,omitempty"`
	GatewayEventExternalRef    *string            `gorm:"column:gateway_event_external_ref;size:120" json:"gateway_event_external_ref,omitempty"`
	GatewayEventSignatureValid bool               `gorm:"column:gateway_event_signature_valid;not null;default:false" json:"gateway_event_signature_valid"`
	GatewayEventPayload        datatypes.JSON     `gorm:"column:gateway_event_payload;type:jsonb" json:"gateway_event_payload"`
	GatewayEventStatus         GatewayEventStatus `gorm:"column:gateway_event_status;type:varchar(12);not null;default:'received'" json:"gateway_event_status"`
	GatewayEventError          *string            `gorm:"column:gateway_event_error;type:text" json:"gateway_event_error,omitempty"`
	GatewayEventReceivedAt     time.Time          `gorm:"column:gateway_event_received_at;not null" json:"gateway_event_received_at"`
	GatewayEventProcessedAt    *time.Time         `gorm:"column:gateway_event_processed_at" json:"gateway_event_processed_at,omitempty"`
}

func (PaymentGatewayEventModel) TableName() string { return "payment_gateway_events" }
