package undo

import "fmt"

func anyToString(v any) string {
	return fmt.Sprintf("%v", v)
}
