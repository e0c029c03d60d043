package comm

func NewSetSpeedCommand(speed uint16, actuator Actuator) Command {
	return Command{kind: setSpeed, speed: speed, actuator: actuator}
}

func NewSetDirectionCommand(direction Direction, actuator Actuator) Command {
	return Command{kind: setDirection, direction: direction, actuator: actuator}
}

func NewStopCommand(actuator Actuator) Command {
	return NewSetSpeedCommand(0, actuator)
}
