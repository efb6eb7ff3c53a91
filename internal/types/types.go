package types

import "encoding/json"

// Inbound event types.
const (
	EventAuthAck   = "authAck"
	EventStartGame = "startGame"
	EventGameTick  = "gameTick"
	EventEndGame   = "endGame"
)

// Outbound event types.
const (
	EventAuth       = "auth"
	EventStartAck   = "startAck"
	EventGameAction = "gameAction"
	EventEndAck     = "endAck"
)

// Envelope is the wire unit in both directions.
type Envelope struct {
	EventType string          `json:"eventType"`
	Data      json.RawMessage `json:"data"`
}

type AuthData struct {
	Token   string `json:"token"`
	BotName string `json:"botName"`
}

type StartGameData struct {
	TickLength int `json:"tickLength"` // ms
	TurnRate   int `json:"turnRate"`
}

var emptyObject = json.RawMessage(`{}`)

// NewEnvelope marshals data into an envelope. A nil data becomes {}.
func NewEnvelope(eventType string, data any) (Envelope, error) {
	if data == nil {
		return Envelope{EventType: eventType, Data: emptyObject}, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{EventType: eventType, Data: raw}, nil
}

// Ack builds a payload-less envelope such as startAck or endAck.
func Ack(eventType string) Envelope {
	return Envelope{EventType: eventType, Data: emptyObject}
}
