package utils

import "fmt"

type NotNumericError struct {
	Row   int
	Value interface{}
}

func (e *NotNumericError) Error() string {
	return fmt.Sprintf("第%d行的值%v不是数值", e.Row, e.Value)
}
