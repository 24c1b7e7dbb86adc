package adjust_players

// AdjustPlayersRequest lists the player names to drop from the booking.
type AdjustPlayersRequest struct {
	RemovePlayers []string `json:"removePlayers"`
}
