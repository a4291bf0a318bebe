package api

// Every response on the wire carries a top-level "success" boolean, per
// spec §6.1. Handlers embed responseEnvelope by value so it always lands
// first in the marshalled object.
type responseEnvelope struct {
	Success bool `json:"success"`
}

func ok() responseEnvelope {
	return responseEnvelope{Success: true}
}

func fail() responseEnvelope {
	return responseEnvelope{Success: false}
}

type createRequest struct {
	Player1Wallet      string         `json:"player1Wallet"`
	Player2Wallet      string         `json:"player2Wallet"`
	Player1CharacterID string         `json:"player1CharacterId"`
	Player2CharacterID string         `json:"player2CharacterId"`
	Player1Name        string         `json:"player1Name"`
	Player2Name        string         `json:"player2Name"`
	StakeAmount        float64        `json:"stakeAmount"`
	Token              string         `json:"token"`
	Rules              map[string]any `json:"rules"`
}

type createResponse struct {
	responseEnvelope
	DuelID              string `json:"duelId"`
	Player1StealthID    string `json:"player1StealthId"`
	Player2StealthID    string `json:"player2StealthId"`
	StakeAmountLamports string `json:"stakeAmountLamports"`
	ExpiresAt           int64  `json:"expiresAt"`
}

type lockRequest struct {
	DuelID       string `json:"duelId"`
	PlayerWallet string `json:"playerWallet"`
	PaymentProof string `json:"paymentProof"`
}

type lockResponse struct {
	responseEnvelope
	TxSignature string `json:"txSignature"`
	DuelStatus  string `json:"duelStatus"`
	BothLocked  bool   `json:"bothLocked"`
}

type settleRequest struct {
	DuelID            string         `json:"duelId"`
	WinnerWallet      string         `json:"winnerWallet"`
	WinnerCharacterID string         `json:"winnerCharacterId"`
	ServerSignature   string         `json:"serverSignature"`
	CombatSummary     map[string]any `json:"combatSummary"`
}

type settleResponse struct {
	responseEnvelope
	WinnerTxSignature     string `json:"winnerTxSignature"`
	TreasuryTxSignature   string `json:"treasuryTxSignature,omitempty"`
	WinnerPayoutLamports  string `json:"winnerPayoutLamports"`
	TreasuryFeeLamports   string `json:"treasuryFeeLamports"`
	CommitmentHash        string `json:"commitmentHash"`
	CommitmentTxSignature string `json:"commitmentTxSignature,omitempty"`
}

type refundRequest struct {
	DuelID          string `json:"duelId"`
	Reason          string `json:"reason"`
	ServerSignature string `json:"serverSignature"`
}

type refundResponse struct {
	responseEnvelope
	RefundTxSignatures []string `json:"refundTxSignatures"`
}

type duelView struct {
	DuelID           string         `json:"duelId"`
	Status           string         `json:"status"`
	Player1Name      string         `json:"player1Name"`
	Player2Name      string         `json:"player2Name"`
	Player1StealthID string         `json:"player1StealthId"`
	Player2StealthID string         `json:"player2StealthId"`
	Player1Locked    bool           `json:"player1Locked"`
	Player2Locked    bool           `json:"player2Locked"`
	StakeLamports    string         `json:"stake"`
	Token            string         `json:"token"`
	ExpiresAt        int64          `json:"expiresAt"`
	WinnerStealthID  string         `json:"winnerStealthId,omitempty"`
	CombatSummary    map[string]any `json:"combatSummary,omitempty"`
}

type getDuelResponse struct {
	responseEnvelope
	Duel duelView `json:"duel"`
}

type verifyResponse struct {
	responseEnvelope
	Verification verificationView `json:"verification"`
	Commitment   commitmentView   `json:"commitment"`
	OnChain      onChainView      `json:"onChain"`
}

type verificationView struct {
	DuelID          string `json:"duelId"`
	WinnerStealthID string `json:"winnerStealthId"`
}

type commitmentView struct {
	RawData        string `json:"rawData"`
	Hash           string `json:"hash"`
	RecomputedHash string `json:"recomputedHash"`
	HashMatches    bool   `json:"hashMatches"`
}

type onChainView struct {
	Posted      bool   `json:"posted"`
	TxSignature string `json:"txSignature,omitempty"`
}

type recoveryStatusResponse struct {
	responseEnvelope
	FailedDuels        []string `json:"failedDuels"`
	PendingSettlements []string `json:"pendingSettlements"`
}

type emergencyRefundRequest struct {
	DuelID               string `json:"duelId"`
	Player1Wallet        string `json:"player1Wallet"`
	Player2Wallet        string `json:"player2Wallet"`
	StakePerPlayerAmount string `json:"stakePerPlayerLamports"`
	Token                string `json:"token"`
}

type emergencyRefundLegView struct {
	Player      string `json:"player"`
	Success     bool   `json:"success"`
	TxSignature string `json:"txSignature,omitempty"`
	Error       string `json:"error,omitempty"`
}

type emergencyRefundResponse struct {
	responseEnvelope
	Refunds []emergencyRefundLegView `json:"refunds"`
}

type dustStatusResponse struct {
	responseEnvelope
	DustLamports   string `json:"dustLamports"`
	CanSweep       bool   `json:"canSweep"`
	MinimumToSweep string `json:"minimumToSweep"`
}

type sweepDustRequest struct {
	Token string `json:"token"`
}

type sweepDustResponse struct {
	responseEnvelope
	SweptLamports string `json:"sweptLamports"`
	TxSignature   string `json:"txSignature"`
}

type errorResponse struct {
	responseEnvelope
	Error string `json:"error"`
}
