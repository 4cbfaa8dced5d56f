package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"

	"recruitsite-backend-go/internal/models"
	"recruitsite-backend-go/internal/store"
)

const packetField = "recruitingPacketUrl"

// errUnchanged aborts a store update that would leave the document as it is.
var errUnchanged = errors.New("document unchanged")

func emptyPlayer() models.PlayerProfile {
	return models.PlayerProfile{Measurables: []models.Measurable{}}
}

func emptyPlayerDocument() json.RawMessage {
	raw, _ := json.Marshal(emptyPlayer())
	return raw
}

// Player returns the stored profile document exactly as it was saved, apart from
// the legacy "academic" key, which is served as "academics". A missing or
// unreadable document yields the empty profile.
func (c *Content) Player(ctx context.Context) json.RawMessage {
	raw, err := c.Store.Read(ctx, store.DocPlayer)
	if err != nil {
		if !errors.Is(err, store.ErrNotExist) {
			log.Printf("warn: read %s: %v; serving defaults", store.DocPlayer, err)
		}
		return emptyPlayerDocument()
	}
	doc, err := migratePlayer(raw)
	if err != nil {
		log.Printf("warn: parse %s: %v; serving defaults", store.DocPlayer, err)
		return emptyPlayerDocument()
	}
	return doc
}

// migratePlayer folds the legacy "academic" key into "academics". Documents without
// it are returned untouched, keys and number formatting included.
func migratePlayer(raw []byte) (json.RawMessage, error) {
	root, ok := decodeObject(raw)
	if !ok {
		return nil, errors.New("player document is not a JSON object")
	}
	legacy, ok := root["academic"]
	if !ok {
		return json.RawMessage(raw), nil
	}
	if kind := jsonKind(root["academics"]); kind == "" || kind == "null" {
		root["academics"] = legacy
	}
	delete(root, "academic")
	return json.Marshal(root)
}

// ValidatePlayerPayload checks the shape of an admin-submitted profile before it is decoded.
func ValidatePlayerPayload(raw []byte) error {
	root, ok := decodeObject(raw)
	if !ok {
		return ErrValidation("Invalid player payload")
	}
	personal, ok := decodeObject(root["personalInfo"])
	if !ok {
		return ErrValidation("Invalid player payload: personalInfo must be an object")
	}
	if jsonKind(root["athletics"]) != "object" {
		return ErrValidation("Invalid player payload: athletics must be an object")
	}
	if jsonKind(root["measurables"]) != "array" {
		return ErrValidation("Invalid player payload: measurables must be an array")
	}
	name, ok := stringField(personal, "name")
	if !ok || strings.TrimSpace(name) == "" {
		return ErrValidation("Invalid player payload: personalInfo.name is required")
	}
	if jsonKind(personal["graduationYear"]) != "number" {
		return ErrValidation("Invalid player payload: personalInfo.graduationYear must be a number")
	}
	return nil
}

// SavePlayer validates the payload and stores it as submitted. Fields outside the
// validated core (videos, accolades, site-specific keys) are kept as they are.
func (c *Content) SavePlayer(ctx context.Context, raw []byte) (json.RawMessage, error) {
	if err := ValidatePlayerPayload(raw); err != nil {
		return nil, err
	}
	doc, err := migratePlayer(raw)
	if err != nil {
		return nil, ErrValidation("Invalid player payload")
	}
	if err := c.Store.Write(ctx, store.DocPlayer, doc); err != nil {
		return nil, storeError(store.DocPlayer, err)
	}
	return doc, nil
}

func personalInfo(raw []byte) map[string]json.RawMessage {
	root, ok := decodeObject(raw)
	if !ok {
		return nil
	}
	info, _ := decodeObject(root["personalInfo"])
	return info
}

func (c *Content) RecruitingPacketURL(ctx context.Context) string {
	url, _ := stringField(personalInfo(c.Player(ctx)), packetField)
	return url
}

// editPersonalInfo rewrites personalInfo in place; fn reports whether it changed anything.
// The rest of the document is carried over key for key.
func (c *Content) editPersonalInfo(ctx context.Context, fn func(info map[string]json.RawMessage) bool) error {
	err := c.Store.Update(ctx, store.DocPlayer, func(current []byte) ([]byte, error) {
		if current == nil {
			current = emptyPlayerDocument()
		}
		doc, err := migratePlayer(current)
		if err != nil {
			return nil, ErrIO("Stored player document is corrupt", err)
		}
		root, _ := decodeObject(doc)
		info, ok := decodeObject(root["personalInfo"])
		if !ok {
			info = map[string]json.RawMessage{}
		}
		if !fn(info) {
			return nil, errUnchanged
		}
		encoded, err := json.Marshal(info)
		if err != nil {
			return nil, err
		}
		root["personalInfo"] = encoded
		return json.Marshal(root)
	})
	if errors.Is(err, errUnchanged) {
		return nil
	}
	if err != nil {
		return storeError(store.DocPlayer, err)
	}
	return nil
}

// SetRecruitingPacket points the profile at a newly uploaded packet and returns the URL it replaced.
func (c *Content) SetRecruitingPacket(ctx context.Context, url string) (string, error) {
	var previous string
	err := c.editPersonalInfo(ctx, func(info map[string]json.RawMessage) bool {
		previous, _ = stringField(info, packetField)
		encoded, _ := json.Marshal(url)
		info[packetField] = encoded
		return true
	})
	return previous, err
}

// ClearRecruitingPacket unsets the packet link when it matches url (or url is empty)
// and returns the URL that was removed, if any.
func (c *Content) ClearRecruitingPacket(ctx context.Context, url string) (string, error) {
	var removed string
	err := c.editPersonalInfo(ctx, func(info map[string]json.RawMessage) bool {
		current, _ := stringField(info, packetField)
		if current == "" || (url != "" && url != current) {
			return false
		}
		removed = current
		delete(info, packetField)
		return true
	})
	return removed, err
}
