package service

import (
	"encoding/json"

	"wayfare/internal/domain"
)

// PrivateProfileNotice acompaña la proyeccion minima de un perfil privado.
const PrivateProfileNotice = "This profile is private"

// FilterProfile proyecta la cuenta sujeto segun quien la mira. Es una
// funcion pura: no toca almacenamiento ni muta sus argumentos.
//
// El dueño ve su documento completo, incluidos billetera, bloqueados y
// push tokens. Un perfil privado se reduce a la tarjeta minima con un
// aviso. En los demas casos se omiten email, telefono y ubicacion segun
// los toggles individuales de privacidad. Los campos de credencial (hash,
// codigos de verificacion y reseteo, contadores de bloqueo, ids de
// Stripe) nunca se serializan, ni siquiera para el dueño.
func FilterProfile(subject domain.User, viewer *domain.User) (map[string]any, error) {
	if viewer != nil && viewer.ID == subject.ID {
		return ownerToMap(subject)
	}

	if subject.Privacy.ProfileVisibility == domain.VisibilityPrivate {
		projection := map[string]any{
			"id":       subject.ID,
			"fullname": subject.Fullname,
			"nickname": subject.Nickname,
			"notice":   PrivateProfileNotice,
		}
		if subject.ProfilePic != "" {
			projection["profilePic"] = subject.ProfilePic
		}
		return projection, nil
	}

	projection, err := userToMap(subject)
	if err != nil {
		return nil, err
	}
	if !subject.Privacy.ShowEmail {
		delete(projection, "email")
	}
	if !subject.Privacy.ShowPhone {
		delete(projection, "phoneNumber")
	}
	if !subject.Privacy.ShowLocation {
		delete(projection, "currentLocation")
		delete(projection, "address")
	}
	return projection, nil
}

// ownerToMap agrega sobre la proyeccion publica los campos que solo el
// dueño puede ver. Las etiquetas json los excluyen de la serializacion,
// asi que se reponen a mano sobre el mapa.
func ownerToMap(user domain.User) (map[string]any, error) {
	projection, err := userToMap(user)
	if err != nil {
		return nil, err
	}
	projection["wallet"] = user.Wallet
	if user.BlockedUsers != nil {
		projection["blockedUsers"] = user.BlockedUsers
	} else {
		projection["blockedUsers"] = []string{}
	}
	if user.PushTokens != nil {
		projection["pushTokens"] = user.PushTokens
	} else {
		projection["pushTokens"] = []domain.PushToken{}
	}
	return projection, nil
}

// userToMap serializa la cuenta respetando las etiquetas json, que ya
// excluyen todos los campos sensibles.
func userToMap(user domain.User) (map[string]any, error) {
	raw, err := json.Marshal(user)
	if err != nil {
		return nil, err
	}
	var projection map[string]any
	if err := json.Unmarshal(raw, &projection); err != nil {
		return nil, err
	}
	return projection, nil
}
