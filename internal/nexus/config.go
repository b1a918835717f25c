package nexus

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

// ConfigError is returned for every failure while loading configuration.
type ConfigError struct {
	Code    string
	Message string
	Field   string
	Cause   error
}

func (e ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s (field: %s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e ConfigError) Unwrap() error {
	return e.Cause
}

const (
	ErrCodeInvalidType   = "CONFIG_INVALID_TYPE"
	ErrCodeFileNotFound  = "CONFIG_FILE_NOT_FOUND"
	ErrCodeValidation    = "CONFIG_VALIDATION_FAILED"
	ErrCodeEnvironment   = "CONFIG_ENV_READ_FAILED"
	ErrCodeMerge         = "CONFIG_MERGE_FAILED"
	ErrCodeSecurityCheck = "CONFIG_SECURITY_CHECK_FAILED"
	ErrCodeTimeout       = "CONFIG_TIMEOUT"
)

// SelfValidator is implemented by configs that carry their own semantic checks.
type SelfValidator interface {
	Validate() error
}

// Validator validates a fully loaded configuration.
type Validator interface {
	Validate(ctx context.Context, cfg interface{}) error
}

// SecurityChecker rejects configurations carrying obviously unsafe secrets.
type SecurityChecker interface {
	CheckSecurity(ctx context.Context, cfg interface{}) error
}

type LoaderOptions struct {
	DefaultFileName string
	FileName        string
	OnlyEnvironment bool
	Validator       Validator
	SecurityChecker SecurityChecker
	Timeout         time.Duration
}

// Loader reads configuration from an optional file and the environment.
// Environment values win over file values.
type Loader struct {
	options LoaderOptions
}

type LoaderOption func(*LoaderOptions)

func WithDefaultFileName(fileName string) LoaderOption {
	return func(o *LoaderOptions) {
		o.DefaultFileName = fileName
	}
}

func WithFileName(fileName string) LoaderOption {
	return func(o *LoaderOptions) {
		o.FileName = fileName
	}
}

func WithOnlyEnvironment() LoaderOption {
	return func(o *LoaderOptions) {
		o.OnlyEnvironment = true
		o.FileName = ""
	}
}

func WithValidator(v Validator) LoaderOption {
	return func(o *LoaderOptions) {
		o.Validator = v
	}
}

func WithSecurityChecker(sc SecurityChecker) LoaderOption {
	return func(o *LoaderOptions) {
		o.SecurityChecker = sc
	}
}

func WithTimeout(timeout time.Duration) LoaderOption {
	return func(o *LoaderOptions) {
		o.Timeout = timeout
	}
}

// NewLoader creates a loader. By default it looks for ".env" in the working directory.
func NewLoader(opts ...LoaderOption) *Loader {
	options := LoaderOptions{
		DefaultFileName: ".env",
		Validator:       &DefaultValidator{},
		SecurityChecker: &DefaultSecurityChecker{},
		Timeout:         10 * time.Second,
	}
	for _, opt := range opts {
		opt(&options)
	}
	return &Loader{options: options}
}

func (l *Loader) Load(cfg interface{}) error {
	return l.LoadWithContext(context.Background(), cfg)
}

// LoadWithContext fills cfg, which must be a pointer to a struct.
func (l *Loader) LoadWithContext(ctx context.Context, cfg interface{}) error {
	if l.options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.options.Timeout)
		defer cancel()
	}

	v := reflect.ValueOf(cfg)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return &ConfigError{
			Code:    ErrCodeInvalidType,
			Message: fmt.Sprintf("configuration must be a pointer to struct, got %T", cfg),
		}
	}

	if err := l.read(cfg); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return &ConfigError{Code: ErrCodeTimeout, Message: "configuration load cancelled", Cause: err}
	}

	if l.options.SecurityChecker != nil {
		if err := l.options.SecurityChecker.CheckSecurity(ctx, cfg); err != nil {
			return &ConfigError{Code: ErrCodeSecurityCheck, Message: "security validation failed", Cause: err}
		}
	}
	if l.options.Validator != nil {
		if err := l.options.Validator.Validate(ctx, cfg); err != nil {
			return &ConfigError{Code: ErrCodeValidation, Message: "configuration validation failed", Cause: err}
		}
	}
	return nil
}

func (l *Loader) read(cfg interface{}) error {
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return &ConfigError{Code: ErrCodeEnvironment, Message: "failed to read environment variables", Cause: err}
	}
	if l.options.OnlyEnvironment {
		return nil
	}

	fileName := l.resolveFileName()
	if fileName == "" {
		return nil
	}

	fileCfg := reflect.New(reflect.ValueOf(cfg).Elem().Type()).Interface()
	if err := cleanenv.ReadConfig(fileName, fileCfg); err != nil {
		return &ConfigError{
			Code:    ErrCodeFileNotFound,
			Message: fmt.Sprintf("failed to read configuration file: %s", fileName),
			Cause:   err,
		}
	}

	// cleanenv.ReadConfig also applies the environment, so overwriting keeps env precedence.
	if err := mergo.Merge(cfg, fileCfg, mergo.WithOverride); err != nil {
		return &ConfigError{Code: ErrCodeMerge, Message: "failed to merge configuration sources", Cause: err}
	}
	return nil
}

func (l *Loader) resolveFileName() string {
	if l.options.FileName != "" {
		return l.options.FileName
	}
	if l.options.DefaultFileName == "" {
		return ""
	}
	if _, err := os.Stat(l.options.DefaultFileName); err == nil {
		return l.options.DefaultFileName
	}
	return ""
}

// DefaultValidator runs struct tag validation, then SelfValidator.Validate when implemented.
type DefaultValidator struct {
	validator *validator.Validate
}

func (v *DefaultValidator) Validate(_ context.Context, cfg interface{}) error {
	if v.validator == nil {
		v.validator = validator.New()
	}
	if err := v.validator.Struct(cfg); err != nil {
		return err
	}
	if sv, ok := cfg.(SelfValidator); ok {
		return sv.Validate()
	}
	return nil
}

var ErrExposedSecret = errors.New("sensitive field holds a placeholder value")

// DefaultSecurityChecker walks nested structs looking for secret-looking fields
// that still hold a well-known placeholder.
type DefaultSecurityChecker struct{}

func (sc *DefaultSecurityChecker) CheckSecurity(_ context.Context, cfg interface{}) error {
	return sc.walk(reflect.ValueOf(cfg).Elem(), "")
}

func (sc *DefaultSecurityChecker) walk(val reflect.Value, prefix string) error {
	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		ft := typ.Field(i)
		if !ft.IsExported() {
			continue
		}
		name := prefix + ft.Name
		switch field.Kind() {
		case reflect.Struct:
			if err := sc.walk(field, name+"."); err != nil {
				return err
			}
		case reflect.String:
			if isSensitiveField(ft.Name) && isPlaceholder(field.String()) {
				return fmt.Errorf("%w: %s", ErrExposedSecret, name)
			}
		}
	}
	return nil
}

func isSensitiveField(fieldName string) bool {
	lower := strings.ToLower(fieldName)
	for _, s := range []string{"password", "secret", "key", "token"} {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

func isPlaceholder(value string) bool {
	lower := strings.ToLower(value)
	for _, p := range []string{"changeme", "password", "123456"} {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
