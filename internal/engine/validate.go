package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/inamate/playhead/internal/cursor"
	"github.com/inamate/playhead/internal/curve"
	"github.com/inamate/playhead/internal/geom"
	"github.com/inamate/playhead/internal/typeid"
)

type objectKind int

const (
	kindUnknown objectKind = iota
	kindCurve
	kindCursor
	kindTrigger
)

func kindOf(opType string) objectKind {
	prefix, _, _ := strings.Cut(opType, ".")
	switch prefix {
	case typeid.PrefixCurve:
		return kindCurve
	case typeid.PrefixCursor:
		return kindCursor
	case typeid.PrefixTrigger:
		return kindTrigger
	}
	return kindUnknown
}

func (k objectKind) prefix() string {
	switch k {
	case kindCurve:
		return typeid.PrefixCurve
	case kindCursor:
		return typeid.PrefixCursor
	case kindTrigger:
		return typeid.PrefixTrigger
	}
	return ""
}

func isCreate(opType string) bool {
	return opType == OpCurveCreate || opType == OpCursorCreate || opType == OpTriggerCreate
}

// knownLocked reports whether id will exist once the queue is applied.
func (e *Engine) knownLocked(k objectKind, id string) bool {
	if _, ok := e.pendingDelete[id]; ok {
		return false
	}
	if _, ok := e.pendingCreate[id]; ok {
		return true
	}
	switch k {
	case kindCurve:
		return e.curves.has(id)
	case kindCursor:
		return e.cursors.has(id)
	case kindTrigger:
		return e.triggers.has(id)
	}
	return false
}

func (e *Engine) checkID(k objectKind, id string) error {
	if err := typeid.Validate(id, k.prefix()); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidID, err)
	}
	if !e.knownLocked(k, id) {
		return fmt.Errorf("%s %s: %w", k.prefix(), id, ErrNotFound)
	}
	return nil
}

func invalid(op *Operation, reason string) error {
	return fmt.Errorf("%s: %w: %s", op.Type, ErrInvalidOp, reason)
}

// validateLocked checks ids and payloads. It assigns ids to create operations
// that arrive without one.
func (e *Engine) validateLocked(op *Operation) error {
	k := kindOf(op.Type)
	if k == kindUnknown {
		return fmt.Errorf("%w: %q", ErrUnknownOp, op.Type)
	}

	if isCreate(op.Type) {
		if op.Target == "" {
			op.Target = typeid.New(k.prefix())
		} else if err := typeid.Validate(op.Target, k.prefix()); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidID, err)
		} else if e.knownLocked(k, op.Target) {
			return fmt.Errorf("%s: %w", op.Target, ErrDuplicateID)
		}
	} else if err := e.checkID(k, op.Target); err != nil {
		return err
	}

	switch k {
	case kindCurve:
		return e.validateCurve(op)
	case kindCursor:
		return e.validateCursor(op)
	}
	return validateTrigger(op)
}

func (e *Engine) validateCurve(op *Operation) error {
	switch op.Type {
	case OpCurveCreate:
		if op.Ellipse != nil && len(op.Points) > 0 {
			return invalid(op, "points and ellipse are exclusive")
		}
		if op.Equation != nil {
			return validEquation(op)
		}
	case OpCurveDelete, OpCurvePointRemove, OpCurvePointShift, OpCurveResample:
	case OpCurvePosition:
		if op.Position == nil {
			return invalid(op, "position required")
		}
	case OpCurveActive:
		if op.Active == nil {
			return invalid(op, "active required")
		}
	case OpCurvePointSet:
		if op.Point == nil {
			return invalid(op, "point required")
		}
		if op.Index < 0 {
			return invalid(op, "negative index")
		}
	case OpCurvePointTranslate, OpCurveTranslate:
		if op.Delta == nil {
			return invalid(op, "delta required")
		}
	case OpCurveEllipse:
		if op.Ellipse == nil {
			return invalid(op, "ellipse required")
		}
	case OpCurveEquation:
		return validEquation(op)
	case OpCurveEquationParam:
		if op.Name == "" || op.Value == nil {
			return invalid(op, "name and value required")
		}
	case OpCurveSVG:
		if _, err := curve.ParseSVGPath(op.Text); err != nil {
			return invalid(op, err.Error())
		}
	case OpCurvePolyline:
		if err := curve.New("").SetPolyline(op.Text); err != nil {
			return invalid(op, err.Error())
		}
	case OpCurveText:
		if _, err := curve.TextOutline(op.Text, op.Family); err != nil {
			return invalid(op, err.Error())
		}
	case OpCurveImage:
		if op.img == nil {
			return invalid(op, "image not loaded")
		}
	case OpCurveResize, OpCurveResizeTo:
		if op.Size == nil {
			return invalid(op, "size required")
		}
	case OpCurveInertia:
		if op.Value == nil {
			return invalid(op, "value required")
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOp, op.Type)
	}
	return nil
}

func validEquation(op *Operation) error {
	if op.Equation == nil {
		return invalid(op, "equation required")
	}
	switch op.Equation.Kind {
	case curve.KindEquationCartesian, curve.KindEquationPolar:
		return nil
	}
	return invalid(op, fmt.Sprintf("unsupported equation kind %q", op.Equation.Kind))
}

func (e *Engine) validateCursor(op *Operation) error {
	switch op.Type {
	case OpCursorCreate, OpCursorBind:
		if op.CurveID != "" {
			if err := e.checkID(kindCurve, op.CurveID); err != nil {
				return err
			}
		}
	case OpCursorDelete, OpCursorReset:
	case OpCursorTarget:
		if op.Position == nil {
			return invalid(op, "position required")
		}
	case OpCursorSpeed:
		if op.Speeds == nil && op.TimeFactor == nil {
			return invalid(op, "speeds or timeFactor required")
		}
	case OpCursorOffsets:
		if op.Offsets == nil {
			return invalid(op, "offsets required")
		}
	case OpCursorSize:
		if op.Size == nil || op.Size.Width < 0 || op.Size.Height < 0 {
			return invalid(op, "non-negative size required")
		}
	case OpCursorFrames:
		src, dst := cursor.DefaultSourceFrame, cursor.DefaultTargetFrame
		var err error
		if op.Source != "" {
			if src, err = geom.ParseFrame(op.Source); err != nil {
				return invalid(op, err.Error())
			}
		}
		if op.Dest != "" {
			if dst, err = geom.ParseFrame(op.Dest); err != nil {
				return invalid(op, err.Error())
			}
		}
		op.frames = &[2]geom.Frame{src, dst}
	case OpCursorEasing:
		if !op.Easing.Valid() {
			return invalid(op, fmt.Sprintf("unknown easing %q", op.Easing))
		}
	case OpCursorCollisions, OpCursorLockLength:
		if op.Active == nil {
			return invalid(op, "active required")
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOp, op.Type)
	}
	return nil
}

func validateTrigger(op *Operation) error {
	switch op.Type {
	case OpTriggerCreate, OpTriggerDelete:
	case OpTriggerPosition:
		if op.Position == nil {
			return invalid(op, "position required")
		}
	case OpTriggerActive:
		if op.Active == nil {
			return invalid(op, "active required")
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOp, op.Type)
	}
	return nil
}

func (e *Engine) loadImage(op *Operation) error {
	if e.assets == nil {
		return invalid(op, "no asset store")
	}
	if err := typeid.Validate(op.AssetID, typeid.PrefixAsset); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidID, err)
	}
	img, err := e.assets.Open(op.AssetID)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("asset %s: %w", op.AssetID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("open asset %s: %w", op.AssetID, err)
	}
	op.img = img
	return nil
}
