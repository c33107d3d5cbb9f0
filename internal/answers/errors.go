package answers

import "errors"

var (
	ErrAnswerNotFound   = errors.New("answer not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrEmptyTitle       = errors.New("please fill all the fields")
	ErrNotOwner         = errors.New("you are not authorized to perform this action")
)
