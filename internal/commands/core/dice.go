package core

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
)

const (
	maxDice  = 100
	maxSides = 1000
)

var (
	tokenRegex = regexp.MustCompile(`(?i)(\d*d\d+|\d+|[+\-*/])`)
	diceRegex  = regexp.MustCompile(`(?i)^(\d*)d(\d+)$`)
)

var (
	ErrEmptyFormula   = errors.New("can't parse your formula, try something like `2d6+1d4*2-3`")
	ErrDivisionByZero = errors.New("division by zero is forbidden, even in games")
	ErrDanglingOp     = errors.New("operator without operand")
)

// RollResult is an evaluated dice formula.
type RollResult struct {
	Formula string
	// Breakdown shows every term with its individual rolls.
	Breakdown string
	Total     int
}

type term struct {
	value int
	desc  string
	op    string
}

// Roll evaluates formulas like `2d6+1d4*2-3`. Multiplication and division
// bind tighter than addition and subtraction; division truncates.
func Roll(formula string, rnd *rand.Rand) (RollResult, error) {
	formula = strings.ReplaceAll(formula, " ", "")
	if formula == "" || tokenRegex.ReplaceAllString(formula, "") != "" {
		return RollResult{}, ErrEmptyFormula
	}
	tokens := tokenRegex.FindAllString(formula, -1)

	var terms []term
	op := "+"
	expectOperand := true
	for _, tok := range tokens {
		if strings.ContainsAny(tok, "+-*/") {
			if expectOperand {
				return RollResult{}, fmt.Errorf("%w: `%s`", ErrDanglingOp, tok)
			}
			op = tok
			expectOperand = true
			continue
		}
		val, desc, err := evaluateToken(tok, rnd)
		if err != nil {
			return RollResult{}, fmt.Errorf("failed to evaluate `%s`: %w", tok, err)
		}
		terms = append(terms, term{value: val, desc: desc, op: op})
		expectOperand = false
	}
	if expectOperand {
		return RollResult{}, fmt.Errorf("%w: `%s`", ErrDanglingOp, op)
	}

	// * and / first
	var merged []term
	for _, t := range terms {
		if t.op != "*" && t.op != "/" {
			merged = append(merged, t)
			continue
		}
		prev := &merged[len(merged)-1]
		switch t.op {
		case "*":
			prev.value *= t.value
		case "/":
			if t.value == 0 {
				return RollResult{}, ErrDivisionByZero
			}
			prev.value /= t.value
		}
		prev.desc = fmt.Sprintf("%s %s %s", prev.desc, t.op, t.desc)
	}

	// then + and -
	total := 0
	details := make([]string, 0, len(merged))
	for i, t := range merged {
		if i > 0 {
			details = append(details, t.op)
		}
		details = append(details, t.desc)
		if t.op == "-" {
			total -= t.value
		} else {
			total += t.value
		}
	}

	return RollResult{
		Formula:   formula,
		Breakdown: strings.Join(details, " "),
		Total:     total,
	}, nil
}

func evaluateToken(token string, rnd *rand.Rand) (int, string, error) {
	if m := diceRegex.FindStringSubmatch(token); m != nil {
		count := 1
		if m[1] != "" {
			n, err := strconv.Atoi(m[1])
			if err != nil || n < 1 {
				return 0, "", errors.New("invalid dice count")
			}
			count = n
		}
		sides, err := strconv.Atoi(m[2])
		if err != nil || sides < 2 {
			return 0, "", errors.New("invalid dice sides")
		}
		if count > maxDice || sides > maxSides {
			return 0, "", fmt.Errorf("too big, max %d dice and %d sides", maxDice, maxSides)
		}

		sum := 0
		rolls := make([]string, count)
		for i := range rolls {
			r := rnd.IntN(sides) + 1
			sum += r
			rolls[i] = strconv.Itoa(r)
		}
		return sum, fmt.Sprintf("`%s` [%s]", token, strings.Join(rolls, ", ")), nil
	}

	num, err := strconv.Atoi(token)
	if err != nil {
		return 0, "", errors.New("not a number or dice")
	}
	return num, fmt.Sprintf("`%d`", num), nil
}
