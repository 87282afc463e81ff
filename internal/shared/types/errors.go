package types

import "errors"

var (
	// ErrMalformedInput sinaliza colunas do schedule com tamanhos diferentes.
	// O relatório é abortado sem linhas, nunca é fatal.
	ErrMalformedInput = errors.New("schedule columns are empty or have different lengths")

	ErrUnresolvableAttribute    = errors.New("unable to retrieve value from object")
	ErrUnrecognizedExportFormat = errors.New("unable to recognize that file type")
	ErrUnknownUnit              = errors.New("unknown unit")
	ErrIncompatibleUnits        = errors.New("incompatible unit dimensions")
	ErrMixedValueTypes          = errors.New("cannot add string and numeric values")
	ErrMalformedFilter          = errors.New("malformed filter clause")
	ErrScheduleNotFound         = errors.New("schedule not found in property set store")
)
