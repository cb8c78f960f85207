package riddle

import (
	"fmt"
	"math/rand/v2"
)

var mathOps = []string{"+", "-", "*", "/"}

// MathRiddle generates a simple arithmetic riddle with an integer answer
// strictly between 0 and 100. Division operands are constructed as
// (divisor·k, divisor) so the quotient is always whole; other operators
// draw both operands uniformly in [1,100] and redraw until the result is
// in range. The loop terminates: division always qualifies and the other
// operators have a nonzero-probability region inside the bound.
func MathRiddle(rng *rand.Rand) Riddle {
	for {
		op := mathOps[rng.IntN(len(mathOps))]

		a := 1 + rng.IntN(100)
		b := 1 + rng.IntN(100)
		if op == "/" {
			b = 1 + rng.IntN(10)
			a = b * (1 + rng.IntN(10))
		}

		var answer int
		switch op {
		case "+":
			answer = a + b
		case "-":
			answer = a - b
		case "*":
			answer = a * b
		case "/":
			answer = a / b
		}

		if answer <= 0 || answer >= 100 {
			continue
		}
		return Riddle{
			Text:   fmt.Sprintf("What is %d %s %d?", a, op, b),
			Answer: fmt.Sprintf("%d", answer),
		}
	}
}
