package auth

// Decision is an allow/deny verdict with a machine-readable reason code.
// Reason is empty when the action is allowed.
type Decision struct {
	Allowed bool
	Reason  string
}

const (
	ReasonPrivilegeRequired = "PRIVILEGE_REQUIRED"
	ReasonNotOwner          = "NOT_OWNER"
)

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Reason: reason}
}

// CanValidateAccomplishment gates the validate/refuse transition.
func CanValidateAccomplishment(privilege int) Decision {
	if privilege >= 1 {
		return allow()
	}
	return deny(ReasonPrivilegeRequired)
}

// CanEditPrivilegedFields gates edits of the wallet and privilege fields.
// Identity fields (pseudo, name, surname) are always self-editable and not
// subject to this check.
func CanEditPrivilegedFields(privilege int, editingSelf bool) Decision {
	if privilege >= 1 {
		return allow()
	}
	return deny(ReasonPrivilegeRequired)
}

// CanMutateGoodies restricts goodies update/delete to the creator.
func CanMutateGoodies(callerID, creatorID int64) Decision {
	if callerID == creatorID {
		return allow()
	}
	return deny(ReasonNotOwner)
}

// CanRefundPurchase gates purchase refunds.
func CanRefundPurchase(privilege int) Decision {
	if privilege >= 1 {
		return allow()
	}
	return deny(ReasonPrivilegeRequired)
}
