package cerr

import (
	"fmt"
	"sort"

	"github.com/apex/log"
	"github.com/cockroachdb/errors"
)

type F = map[string]any

// Context accumulates key/value fields that get attached to an error as details
type Context struct {
	fields F
}

type Wrapper struct {
	ctx Context
	err error
}

func Field(key string, value any) Context {
	return Context{}.Field(key, value)
}

func Fields(fields F) Context {
	ctx := Context{}
	for key, value := range fields {
		ctx = ctx.Field(key, value)
	}

	return ctx
}

func Wrap(err error) Wrapper {
	return Context{}.Wrap(err)
}

func Error(msg string) error {
	return Context{}.attach(errors.NewWithDepth(1, msg))
}

func (c Context) Field(key string, value any) Context {
	fields := make(F, len(c.fields)+1)
	for k, v := range c.fields {
		fields[k] = v
	}

	fields[key] = value
	return Context{fields: fields}
}

func (c Context) Wrap(err error) Wrapper {
	return Wrapper{ctx: c, err: err}
}

func (c Context) Error(msg string) error {
	return c.attach(errors.NewWithDepth(1, msg))
}

func (w Wrapper) Error(msg string) error {
	return w.ctx.attach(errors.WrapWithDepth(1, w.err, msg))
}

func (c Context) attach(err error) error {
	keys := make([]string, 0, len(c.fields))
	for key := range c.fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		err = errors.WithDetail(err, fmt.Sprintf("%s: %+v", key, c.fields[key]))
	}

	return err
}

// Log writes the error and every detail collected along its chain
func Log(err error) {
	if err == nil {
		return
	}

	log.WithFields(log.Fields{
		"details": errors.GetAllDetails(err),
	}).WithError(err).Error(errors.UnwrapAll(err).Error())
}
