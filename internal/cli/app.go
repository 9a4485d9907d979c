package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"classquiz/internal/quiz"

	"go.uber.org/zap"
)

// timeBudgetsSeconds are the selectable per-question budgets.
var timeBudgetsSeconds = []int{5, 10, 15, 20, 30}

const defaultBudgetSeconds = 10

var errInputClosed = errors.New("input closed")

// Run plays one quiz session on the terminal: student info and time budget
// are prompted up front, then each question runs against its own countdown.
func Run(ctx context.Context, in io.Reader, out io.Writer, service *quiz.Service, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	reader := bufio.NewReader(in)

	student, err := promptStudent(reader, out)
	if err != nil {
		return err
	}
	budget, err := promptTimeBudget(reader, out)
	if err != nil {
		return err
	}

	session, err := service.StartSession(ctx, quiz.SessionConfig{
		Student:         student,
		TimePerQuestion: budget,
	})
	if errors.Is(err, quiz.ErrNoQuestions) {
		fmt.Fprintln(out, "No questions available. Please add questions first.")
		return nil
	}
	if err != nil {
		return err
	}

	lines := readLines(reader)

	for session.State() == quiz.StateRunning {
		if err := playQuestion(ctx, out, session, budget, lines); err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "\n%s, your final score: %d/%d\n", student.Name, session.Score(), session.TotalQuestions())

	if _, err := service.FinishSession(ctx, session); err != nil {
		// The result was already shown; a failed save must not eat it.
		logger.Error("failed to save score", zap.Error(err))
		fmt.Fprintln(out, "Warning: your score could not be saved.")
	}
	return nil
}

func playQuestion(ctx context.Context, out io.Writer, session *quiz.Session, budget time.Duration, lines <-chan string) error {
	question, err := session.Current()
	if err != nil {
		return err
	}
	printQuestion(out, session.QuestionNumber(), session.TotalQuestions(), question)

	ticks := make(chan quiz.Tick, 1)
	expired := make(chan struct{}, 1)

	countdown := quiz.NewCountdown()
	countdown.Start(budget, func(tick quiz.Tick) {
		if tick.Expired {
			select {
			case expired <- struct{}{}:
			default:
			}
			return
		}
		select {
		case ticks <- tick:
		default:
		}
	})
	defer countdown.Stop()

	lastPhase := quiz.PhaseNormal
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-expired:
			fmt.Fprintln(out, "Time's up!")
			return session.Expire()
		case tick := <-ticks:
			if tick.Phase != lastPhase {
				lastPhase = tick.Phase
				printPhaseChange(out, tick)
			}
		case line, ok := <-lines:
			if !ok {
				return errInputClosed
			}
			done, err := handleAnswerLine(out, session, question, line)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
		}
	}
}

// handleAnswerLine applies one line of input to the current question. It
// reports true once the session moved on to the next question.
func handleAnswerLine(out io.Writer, session *quiz.Session, question quiz.Question, line string) (bool, error) {
	line = strings.ToLower(strings.TrimSpace(line))

	if line == "" {
		if !session.HasSelection() {
			fmt.Fprintln(out, "Select an answer first.")
			return false, nil
		}
		return true, session.Advance()
	}

	if len(line) == 1 && line[0] >= 'a' && line[0] < 'a'+byte(quiz.OptionCount) {
		choice := int(line[0] - 'a')
		if err := session.Select(choice); err != nil {
			return false, err
		}
		fmt.Fprintf(out, "Selected %c) %s. Press enter to confirm.\n", line[0], question.Options[choice])
		return false, nil
	}

	fmt.Fprintf(out, "Enter a letter a-%c, or press enter to confirm your answer.\n", 'a'+quiz.OptionCount-1)
	return false, nil
}

func printQuestion(out io.Writer, number, total int, question quiz.Question) {
	fmt.Fprintf(out, "\nQuestion %d of %d: %s\n\n", number, total, question.Text)
	for idx, option := range question.Options {
		fmt.Fprintf(out, "  %c) %s\n", 'a'+idx, option)
	}
	fmt.Fprintln(out)
}

func printPhaseChange(out io.Writer, tick quiz.Tick) {
	seconds := int(tick.Remaining.Round(time.Second) / time.Second)
	switch tick.Phase {
	case quiz.PhaseWarning:
		fmt.Fprintf(out, "Hurry up, %d seconds left!\n", seconds)
	case quiz.PhaseCritical:
		fmt.Fprintf(out, "Almost out of time, %d seconds left!\n", seconds)
	}
}

func promptStudent(reader *bufio.Reader, out io.Writer) (quiz.Student, error) {
	name, err := promptNonBlank(reader, out, "Your name: ")
	if err != nil {
		return quiz.Student{}, err
	}
	class, err := promptNonBlank(reader, out, "Your class: ")
	if err != nil {
		return quiz.Student{}, err
	}
	return quiz.Student{Name: name, Class: class}, nil
}

func promptNonBlank(reader *bufio.Reader, out io.Writer, prompt string) (string, error) {
	for {
		fmt.Fprint(out, prompt)
		line, err := reader.ReadString('\n')
		value := strings.TrimSpace(line)
		if value != "" {
			return value, nil
		}
		if err != nil {
			return "", errInputClosed
		}
		fmt.Fprintln(out, "This field is required.")
	}
}

func promptTimeBudget(reader *bufio.Reader, out io.Writer) (time.Duration, error) {
	options := make([]string, 0, len(timeBudgetsSeconds))
	for _, seconds := range timeBudgetsSeconds {
		options = append(options, strconv.Itoa(seconds))
	}

	for {
		fmt.Fprintf(out, "Seconds per question (%s) [%d]: ", strings.Join(options, ", "), defaultBudgetSeconds)
		line, err := reader.ReadString('\n')
		value := strings.TrimSpace(line)
		if value == "" {
			if err != nil {
				return 0, errInputClosed
			}
			return time.Duration(defaultBudgetSeconds) * time.Second, nil
		}

		if seconds, convErr := strconv.Atoi(value); convErr == nil && isAllowedBudget(seconds) {
			return time.Duration(seconds) * time.Second, nil
		}
		if err != nil {
			return 0, errInputClosed
		}
		fmt.Fprintf(out, "Pick one of: %s.\n", strings.Join(options, ", "))
	}
}

func isAllowedBudget(seconds int) bool {
	for _, allowed := range timeBudgetsSeconds {
		if seconds == allowed {
			return true
		}
	}
	return false
}

// readLines feeds input lines to the question loop so reading never blocks
// the countdown. The channel closes when the input does.
func readLines(reader *bufio.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		for {
			line, err := reader.ReadString('\n')
			if line != "" {
				lines <- line
			}
			if err != nil {
				return
			}
		}
	}()
	return lines
}
