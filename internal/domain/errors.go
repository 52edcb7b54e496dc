package domain

import "errors"

// Domain errors.
var (
	ErrBossNotFound      = errors.New("boss non trouvé")
	ErrBossAmbiguous     = errors.New("plusieurs boss correspondent, précisez le nom exact")
	ErrForbidden         = errors.New("vous n'avez pas la permission pour cette action")
	ErrStoreUnavailable  = errors.New("stockage temporairement indisponible")
	ErrDeliveryFailed    = errors.New("échec de l'envoi de la notification")
	ErrImmutableField    = errors.New("ce champ ne peut pas être modifié")
	ErrInvalidRespawn    = errors.New("l'intervalle de réapparition doit être strictement positif")
	ErrListingTooShort   = errors.New("le texte de l'annonce est trop court (3 caractères minimum)")
	ErrListingThrottled  = errors.New("vous publiez trop vite, patientez quelques secondes")
	ErrListingOnCooldown = errors.New("cette annonce a déjà été publiée, attendez avant de la remonter")
	ErrUnknownSection    = errors.New("section d'annonces inconnue")
	ErrNoSectionChannel  = errors.New("aucun salon configuré pour cette section")
	ErrBlacklisted       = errors.New("utilisateur sur liste noire")
)
