package model

// AlertKind indicates which threshold the RSI crossed.
type AlertKind string

const (
	AlertOverbought AlertKind = "OVERBOUGHT"
	AlertOversold   AlertKind = "OVERSOLD"
)
