package scan

import (
	"errors"
	"fmt"
)

// ErrPrecondition marca erros em que a verificação não pôde rodar.
var ErrPrecondition = errors.New("pré-condição da verificação falhou")

// PreconditionError carrega a etapa que falhou e a causa.
type PreconditionError struct {
	Step string
	Err  error
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrPrecondition, e.Step, e.Err)
}

func (e *PreconditionError) Unwrap() []error {
	return []error{ErrPrecondition, e.Err}
}

func precondition(step string, err error) error {
	return &PreconditionError{Step: step, Err: err}
}
