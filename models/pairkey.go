package models

// PairKey returns the canonical key for the unordered pair of users.
// The lexicographically smaller id always comes first, so both directions
// of a conversation or interest request map to the same key.
func PairKey(userA, userB string) string {
	if userB < userA {
		userA, userB = userB, userA
	}
	return userA + "#" + userB
}
