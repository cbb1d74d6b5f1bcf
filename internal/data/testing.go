package data

import "time"

// Type ids of the test catalog returned by TestCatalog.
// Intended for tests from other packages that need item data setup.
const (
	TestGoldCoin     int32 = 2148
	TestPlatinumCoin int32 = 2152
	TestCrystalCoin  int32 = 2160
	TestArrow        int32 = 2544
	TestBackpack     int32 = 1988
	TestBag          int32 = 1987
	TestSword        int32 = 2376
	TestShield       int32 = 2509
	TestHelmet       int32 = 2457
	TestTorchLit     int32 = 2051
	TestTorchBurnt   int32 = 2052
	TestFireField    int32 = 1492
	TestCorpse       int32 = 3058
	TestCorpseRotten int32 = 3059
	TestGround       int32 = 102
	TestStone        int32 = 1285
	TestRune         int32 = 2268
	TestDust         int32 = 2266
	TestBadDecay     int32 = 9001
	TestEmber        int32 = 1500
	TestAsh          int32 = 1501
)

// TestCatalog returns a small catalog covering every holder rule.
func TestCatalog() *Catalog {
	c, err := NewCatalog(
		ItemType{ID: TestGoldCoin, Name: "gold coin", Group: GroupCoin, Layer: LayerCommon, Stackable: true, Weight: 1, Worth: 1},
		ItemType{ID: TestPlatinumCoin, Name: "platinum coin", Group: GroupCoin, Layer: LayerCommon, Stackable: true, Weight: 1, Worth: 100},
		ItemType{ID: TestCrystalCoin, Name: "crystal coin", Group: GroupCoin, Layer: LayerCommon, Stackable: true, Weight: 1, Worth: 10000},
		ItemType{ID: TestArrow, Name: "arrow", Group: GroupAmmo, Layer: LayerCommon, Stackable: true, Weight: 1, Slots: SlotAmmo},
		ItemType{ID: TestBackpack, Name: "backpack", Group: GroupContainer, Layer: LayerCommon, Capacity: 20, Weight: 18, Slots: SlotBackpack},
		ItemType{ID: TestBag, Name: "bag", Group: GroupContainer, Layer: LayerCommon, Capacity: 8, Weight: 8, Slots: SlotBackpack},
		ItemType{ID: TestSword, Name: "sword", Group: GroupWeapon, Layer: LayerCommon, Weight: 35, Slots: SlotHand},
		ItemType{ID: TestShield, Name: "shield", Group: GroupArmor, Layer: LayerCommon, Weight: 50, Slots: SlotHand},
		ItemType{ID: TestHelmet, Name: "helmet", Group: GroupArmor, Layer: LayerCommon, Weight: 30, Slots: SlotHead},
		ItemType{ID: TestTorchLit, Name: "lit torch", Group: GroupNone, Layer: LayerCommon, Weight: 5, DecayTo: TestTorchBurnt, DecayTime: 3 * time.Second},
		ItemType{ID: TestTorchBurnt, Name: "burnt torch", Group: GroupNone, Layer: LayerCommon, Weight: 5, DecayTime: 2 * time.Second},
		ItemType{ID: TestFireField, Name: "fire field", Group: GroupMagicField, Layer: LayerTop, Fixed: true, DecayTime: 5 * time.Second},
		ItemType{ID: TestCorpse, Name: "corpse", Group: GroupContainer, Layer: LayerCommon, Capacity: 10, Weight: 1000, Fixed: true, DecayTo: TestCorpseRotten, DecayTime: 40 * time.Second},
		ItemType{ID: TestCorpseRotten, Name: "rotten corpse", Group: GroupNone, Layer: LayerBottom, Fixed: true, DecayTime: 20 * time.Second},
		ItemType{ID: TestGround, Name: "grass", Group: GroupGround, Layer: LayerGround, Fixed: true},
		ItemType{ID: TestStone, Name: "big stone", Group: GroupNone, Layer: LayerBottom, Fixed: true, Blocking: true},
		ItemType{ID: TestRune, Name: "rune", Group: GroupCharges, Layer: LayerCommon, Weight: 1, Charges: 3, DecayTo: TestDust},
		ItemType{ID: TestDust, Name: "dust", Group: GroupCharges, Layer: LayerCommon, Weight: 1, Charges: 1},
		ItemType{ID: TestEmber, Name: "ember", Group: GroupNone, Layer: LayerCommon, Stackable: true, Weight: 1, DecayTo: TestAsh, DecayTime: 2 * time.Second},
		ItemType{ID: TestAsh, Name: "ash", Group: GroupNone, Layer: LayerBottom, Stackable: true, Weight: 1, DecayTime: 10 * time.Second},
		ItemType{ID: TestBadDecay, Name: "cursed relic", Group: GroupNone, Layer: LayerCommon, Weight: 1, DecayTo: 65000, DecayTime: time.Second},
	)
	if err != nil {
		panic(err)
	}
	return c
}
