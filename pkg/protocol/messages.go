// Package protocol documents the JSON messages exchanged with the game server.
// Every frame is an envelope: { "eventType": string, "data": object }.
// Go types for the envelope live in internal/types, cell and action bodies are
// decoded by internal/codec.
package protocol

// Client -> Server
// auth (sent once, right after connecting):
//   token: string
//   botName: string
//
// startAck: {}
//
// gameAction (exactly one per gameTick):
//   action: "move" | "turn" | "shoot"
//   payload:
//     move:  { distance: 0..3 }
//     turn:  { direction: "n" | "ne" | "e" | "se" | "s" | "sw" | "w" | "nw" }
//     shoot: { mass: number, speed: number }
//
// endAck: {}

// Server -> Client
// authAck: {}
//
// startGame:
//   tickLength: number // ms, 0 disables the decision deadline
//   turnRate: number   // optional, max eighth-turns per tick
//
// gameTick: see GameState in state.go
//
// endGame: {}
