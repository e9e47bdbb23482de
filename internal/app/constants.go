package app

// MinPlayersToStartGame is the smallest roster union a master may start a
// game with. Centralized so local runs can relax the rule in one place.
const MinPlayersToStartGame = 2
