package player

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"divide/experiments/metrics"
	"divide/game"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/samber/lo"
)

var ErrQuit = errors.New("player quit")

// LineReader is the part of a readline instance a Human needs.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

// Human is an agent that asks a person at a terminal for every decision.
// Invalid input is reported and asked again.
type Human struct {
	side game.Side
	in   LineReader
	out  io.Writer
}

func NewHuman(side game.Side, in LineReader, out io.Writer) *Human {
	return &Human{side: side, in: in, out: out}
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

// NewTerminalHuman reads from the process terminal. The returned function
// closes the terminal.
func NewTerminalHuman(side game.Side, historyFile string) (*Human, func() error, error) {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mdivide>\033[0m ",
		HistoryFile:     historyFile,
		EOFPrompt:       "quit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open terminal: %w", err)
	}
	return NewHuman(side, l, l.Stdout()), l.Close, nil
}

func (h *Human) showMessage(format string, args ...any) {
	fmt.Fprintf(h.out, format+"\n", args...)
}

func (h *Human) usage() {
	io.WriteString(h.out, "commands:\n")
	io.WriteString(h.out, "2, 3, 4 - divide the current number\n")
	io.WriteString(h.out, "divide <n> - same as typing the divisor\n")
	io.WriteString(h.out, "score - show both scores and the bank\n")
	io.WriteString(h.out, "help - show this message\n")
	io.WriteString(h.out, "quit - leave the game\n")
}

// read prompts until a non-empty line arrives and splits it like a shell.
func (h *Human) read(prompt string) ([]string, error) {
	h.in.SetPrompt(prompt)
	for {
		line, err := h.in.Readline()
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return nil, ErrQuit
		}
		if err != nil {
			return nil, err
		}

		fields, err := shellquote.Split(strings.TrimSpace(line))
		if err != nil {
			h.showMessage("Could not read %q: %v", line, err)
			continue
		}
		if len(fields) == 0 {
			continue
		}
		fields[0] = strings.ToLower(fields[0])
		return fields, nil
	}
}

func (h *Human) ChooseStart(candidates []int, side game.Side) (int, error) {
	h.showMessage("You can choose one number between %v", candidates)
	for {
		fields, err := h.read("What's your choice? ")
		if err != nil {
			return 0, err
		}

		switch fields[0] {
		case "quit", "exit":
			return 0, ErrQuit
		case "help":
			h.showMessage("Type one of %v to start the game there.", candidates)
			continue
		}

		number, err := strconv.Atoi(fields[0])
		if err != nil || !lo.Contains(candidates, number) {
			h.showMessage("Invalid choice! Please choose one of the generated numbers.")
			continue
		}
		return number, nil
	}
}

func (h *Human) FindMove(state game.State) (game.Move, metrics.SearchMetric, error) {
	start := time.Now()
	h.showMessage("Current number: %d", state.Number)
	h.showMessage("%s's turn. Current score: %d", h.side, state.Score(h.side))

	for {
		fields, err := h.read("With which number do you want to divide? (Choose 2, 3, or 4) ")
		if err != nil {
			return 0, metrics.SearchMetric{}, err
		}

		arg := fields[0]
		switch fields[0] {
		case "quit", "exit":
			return 0, metrics.SearchMetric{}, ErrQuit
		case "help":
			h.usage()
			continue
		case "score":
			h.showMessage("player1 %d, player2 %d, bank %d", state.ScoreFirst, state.ScoreSecond, state.Bank)
			continue
		case "divide", "d":
			if len(fields) != 2 {
				h.showMessage("usage: divide <2|3|4>")
				continue
			}
			arg = fields[1]
		}

		divisor, err := strconv.Atoi(arg)
		move := game.Move(divisor)
		if err != nil || !move.Valid() {
			h.showMessage("Invalid choice! Please choose one of 2, 3, or 4.")
			continue
		}
		return move, metrics.SearchMetric{Algorithm: "human", Duration: time.Since(start)}, nil
	}
}
