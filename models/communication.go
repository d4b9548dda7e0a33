package models

import "time"

// Channel is the conversation an entry belongs to
type Channel string

// Communication channels
const (
	ChannelClient      Channel = "CLIENTE"
	ChannelAmbulance   Channel = "AMBULANCIA"
	ChannelExternal    Channel = "EXTERNAL"
	ChannelStakeholder Channel = "STAKEHOLDER"
)

// Valid reports whether c is a known channel
func (c Channel) Valid() bool {
	switch c {
	case ChannelClient, ChannelAmbulance, ChannelExternal, ChannelStakeholder:
		return true
	}
	return false
}

// CommunicationLog is an append-only entry of the per-incident communication ledger
type CommunicationLog struct {
	ID          string    `json:"_id" bson:"_id"`
	IncidentID  string    `json:"incidentId" bson:"incidentId"`
	Channel     Channel   `json:"channel" bson:"channel"`
	SenderID    string    `json:"senderId" bson:"senderId"`
	SenderName  string    `json:"senderName" bson:"senderName"`
	SenderRole  Role      `json:"senderRole" bson:"senderRole"`
	Message     string    `json:"message" bson:"message"`
	Type        string    `json:"type" bson:"type"`
	IsCritical  bool      `json:"isCritical" bson:"isCritical"`
	Timestamp   time.Time `json:"timestamp" bson:"timestamp"`
	SequenceNum int64     `json:"seq" bson:"seq"`
}

// CommunicationInput is the request body for a new ledger entry
type CommunicationInput struct {
	Channel    Channel `json:"channel" validate:"required,oneof=CLIENTE AMBULANCIA EXTERNAL STAKEHOLDER"`
	Message    string  `json:"message" validate:"required"`
	Type       string  `json:"type" validate:"omitempty,oneof=RADIO PHONE WHATSAPP SYSTEM EXTERNAL"`
	IsCritical bool    `json:"isCritical"`
}
