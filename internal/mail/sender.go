package mail

import "go.uber.org/zap"

// Sender delivers account mail. The default implementation just logs; the
// notify worker swaps in real delivery when SMTP is configured.
type Sender struct {
	Log *zap.Logger
}

func (s *Sender) logger() *zap.Logger {
	if s.Log != nil {
		return s.Log
	}
	return zap.NewNop()
}

func (s *Sender) SendWelcome(to, username string) error {
	s.logger().Info("mail: welcome",
		zap.String("to", to), zap.String("username", username))
	return nil
}

func (s *Sender) SendPasswordReset(to, resetURL string) error {
	s.logger().Info("mail: password reset",
		zap.String("to", to), zap.String("url", resetURL))
	return nil
}
