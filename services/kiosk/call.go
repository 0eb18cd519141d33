package kiosk

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"reflect"
	"strconv"
	"strings"
)

func basicLitToValue(t *ast.BasicLit) reflect.Value {
	var i interface{}
	switch t.Kind {
	case token.STRING:
		i, _ = strconv.Unquote(t.Value)
	case token.INT:
		i, _ = strconv.ParseInt(t.Value, 10, 64)
	case token.FLOAT:
		i, _ = strconv.ParseFloat(t.Value, 64)
	}
	return reflect.ValueOf(i)
}

// DynamicCall calls the method of obj named in call, eg `Chime()` or
// `Say("hello", 2)`. Arguments may be string, int, float or bool literals.
func DynamicCall(obj interface{}, call string) (err error) {
	as, err := parser.ParseExpr(call)
	if err != nil {
		return err
	}
	ce, ok := as.(*ast.CallExpr)
	if !ok {
		return errors.New("Didn't parse to CallExpr")
	}

	instance := reflect.ValueOf(obj)
	fname := fmt.Sprint(ce.Fun)
	method := instance.MethodByName(fname)
	if !method.IsValid() {
		return fmt.Errorf("Error: %s not found", call)
	}
	var args []reflect.Value
	for _, expr := range ce.Args {
		var v reflect.Value
		switch t := expr.(type) {
		case *ast.BasicLit:
			v = basicLitToValue(t)
		case *ast.Ident:
			switch strings.ToLower(t.Name) {
			case "true":
				v = reflect.ValueOf(true)
			case "false":
				v = reflect.ValueOf(false)
			default:
				return fmt.Errorf("Identifier: %s not understood", t.Name)
			}
		default:
			return fmt.Errorf("Expression: %v not understood", t)
		}
		args = append(args, v)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("Error calling: %s %s", call, r)
		}
	}()
	method.Call(args)
	return nil
}
