package protocol

// GameState:
//   turnNumber: number
//   gameMap: Cell[][] // rows of cells, indexed gameMap[y][x]
//
// Cell:
//   type: "empty" | "outOfVision" | "audioSignature" | "hitBox" | "ship" | "projectile"
//   data: depends on type
//     empty, outOfVision, audioSignature: {}
//     hitBox:     { entityId: string }
//     ship:       { id, position: {x, y}, direction, health?, heat? }
//     projectile: { id, position: {x, y}, direction, velocity, mass }
//
// Ship health and heat are optional and may be omitted for other ships.
