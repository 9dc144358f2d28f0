package log

import "go.uber.org/zap"

// L is the process-wide logger. Init must run before anything logs through it;
// until then it is a no-op logger so early failures do not panic.
var L = zap.NewNop()

func Init(prod bool) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if prod {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	L = l
	return l, nil
}

func Infof(format string, args ...any)  { L.Sugar().Infof(format, args...) }
func Errorf(format string, args ...any) { L.Sugar().Errorf(format, args...) }
