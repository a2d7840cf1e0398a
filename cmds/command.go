package cmds

import (
	"fmt"
	"reflect"
	"strconv"
)

var errorType = reflect.TypeFor[error]()

// Command is one named CLI action. Its function parameters are parsed
// from the arguments following the name.
type Command struct {
	fn      reflect.Value
	desc    string
	aliases []string
}

func Func(fn any) *Command {
	fnValue := reflect.ValueOf(fn)

	if fnValue.Kind() != reflect.Func {
		panic(fmt.Errorf("must be function, got %T", fn))
	}
	numRets := fnValue.Type().NumOut()
	if numRets >= 2 {
		panic(fmt.Errorf("must return 0 or 1 value"))
	}
	if numRets == 1 && fnValue.Type().Out(0) != errorType {
		panic(fmt.Errorf("must return error"))
	}

	return &Command{
		fn: fnValue,
	}
}

func (c *Command) Desc(desc string) *Command {
	c.desc = desc
	return c
}

func (c *Command) Alias(names ...string) *Command {
	c.aliases = append(c.aliases, names...)
	return c
}

// invoke parses the command's parameters from args and calls it,
// returning the arguments left over.
func (c *Command) invoke(args []string) ([]string, error) {
	fnType := c.fn.Type()
	numIn := fnType.NumIn()
	if len(args) < numIn {
		return nil, fmt.Errorf("expecting %d arguments, got %d", numIn, len(args))
	}

	callArgs := make([]reflect.Value, numIn)
	for i := range numIn {
		value, err := parseArg(fnType.In(i), args[i])
		if err != nil {
			return nil, err
		}
		callArgs[i] = value
	}
	args = args[numIn:]

	rets := c.fn.Call(callArgs)
	if len(rets) > 0 {
		if err, ok := rets[0].Interface().(error); ok && err != nil {
			return nil, err
		}
	}
	return args, nil
}

func parseArg(t reflect.Type, str string) (reflect.Value, error) {
	value := reflect.New(t).Elem()

	switch t.Kind() {

	case reflect.String:
		value.SetString(str)
		return value, nil

	case reflect.Bool:
		switch str {
		case "y", "yes", "n", "no":
			value.SetBool(str[0] == 'y')
			return value, nil
		}
		v, err := strconv.ParseBool(str)
		if err != nil {
			return value, fmt.Errorf("convert %s to bool: %w", str, err)
		}
		value.SetBool(v)
		return value, nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v, err := strconv.ParseInt(str, 10, 64)
		if err != nil {
			return value, fmt.Errorf("convert %s to int: %w", str, err)
		}
		value.SetInt(v)
		return value, nil

	case reflect.Float32, reflect.Float64:
		v, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return value, fmt.Errorf("convert %s to float: %w", str, err)
		}
		value.SetFloat(v)
		return value, nil

	}

	return value, fmt.Errorf("unsupported argument type: %v", t)
}
