package game

// Keyboard summarizes every filled row into one mark per guessed letter.
// A letter keeps the best mark it has ever received: hit over present over
// miss. Letters that were never guessed are absent from the map.
func (g *State) Keyboard() map[string]Mark {
	out := make(map[string]Mark)
	for i := 0; i < g.Tries; i++ {
		marks := g.Marks(i)
		guess := g.Guesses[i]
		for j := 0; j < len(guess) && j < WordLength; j++ {
			letter := guess[j : j+1]
			if rank(marks[j]) > rank(out[letter]) {
				out[letter] = marks[j]
			}
		}
	}
	return out
}

func rank(m Mark) int {
	switch m {
	case MarkHit:
		return 3
	case MarkPresent:
		return 2
	case MarkMiss:
		return 1
	}
	return 0
}
