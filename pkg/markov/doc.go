/*
Package markov provides a small, in-memory, first-order Markov chain for
learning word-to-next-word transitions from lines of text and synthesizing
new word sequences by random walk.

A Chain is trained once from a slice of lines and can then generate any
number of sequences, either from a uniformly chosen start word or anchored
to a caller-supplied seed phrase. All randomness is drawn from a single
*rand.Rand that can be injected with WithRand or WithSeed, which makes
generation reproducible in tests.

	chain := markov.NewChain(markov.WithSeed(7))
	chain.Train([]string{"the cat sat", "the cat ran"})
	fmt.Println(chain.Generate(5, "the"))
*/
package markov
