package model

import "fmt"

type Command string

const (
	CommandMoveLeft  Command = "moveLeft"
	CommandMoveRight Command = "moveRight"
	CommandMoveDown  Command = "moveDown"
	CommandRotate    Command = "rotate"
	CommandFastDrop  Command = "fastDrop"
)

func ParseCommand(s string) (Command, error) {
	switch c := Command(s); c {
	case CommandMoveLeft, CommandMoveRight, CommandMoveDown, CommandRotate, CommandFastDrop:
		return c, nil
	default:
		return "", fmt.Errorf("unknown command %q", s)
	}
}
