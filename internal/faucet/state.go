package faucet

// ViewState is everything the UI renders about the faucet. It is a value:
// every transition returns a new ViewState and leaves the receiver alone.
type ViewState struct {
	Address    string
	Stats      *FaucetStats
	Loading    bool
	Submitting bool
	Err        string
	Success    string
	LastDigest string
}

// IsConnected reports whether a wallet address is set.
func (s ViewState) IsConnected() bool {
	return s.Address != ""
}

// ClaimEnabled reports whether the claim control should be active.
func (s ViewState) ClaimEnabled() bool {
	return s.IsConnected() && s.Stats != nil && s.Stats.CanClaim && !s.Submitting
}

// Connected switches to addr. Stats from another address are dropped.
func (s ViewState) Connected(addr string) ViewState {
	if addr == s.Address {
		return s
	}
	return ViewState{Address: addr}
}

// Disconnected clears everything.
func (s ViewState) Disconnected() ViewState {
	return ViewState{}
}

// BeginRefresh marks a fetch in flight and clears the error.
func (s ViewState) BeginRefresh() ViewState {
	s.Loading = true
	s.Err = ""
	return s
}

// RefreshSucceeded publishes a new snapshot. Ignored while disconnected.
func (s ViewState) RefreshSucceeded(stats FaucetStats) ViewState {
	s.Loading = false
	if !s.IsConnected() {
		return s
	}
	s.Stats = &stats
	s.Err = ""
	return s
}

// RefreshFailed records msg and keeps the previous stats.
func (s ViewState) RefreshFailed(msg string) ViewState {
	s.Loading = false
	s.Err = msg
	s.Success = ""
	return s
}

// BeginAction marks a claim or deposit in flight and clears both messages.
func (s ViewState) BeginAction() ViewState {
	s.Submitting = true
	s.Err = ""
	s.Success = ""
	return s
}

// ActionSucceeded records an accepted transaction.
func (s ViewState) ActionSucceeded(msg, digest string) ViewState {
	s.Submitting = false
	s.Success = msg
	s.Err = ""
	if digest != "" {
		s.LastDigest = digest
	}
	return s
}

// ActionFailed records a rejected or invalid action.
func (s ViewState) ActionFailed(msg string) ViewState {
	s.Submitting = false
	s.Err = msg
	s.Success = ""
	return s
}

// ClearMessages drops both status messages.
func (s ViewState) ClearMessages() ViewState {
	s.Err = ""
	s.Success = ""
	return s
}
