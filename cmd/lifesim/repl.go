package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aiwuxian/life-path/internal/models"
	"github.com/aiwuxian/life-path/internal/parser"
	"github.com/aiwuxian/life-path/internal/services"
)

type repl struct {
	game      *services.GameService
	parser    *parser.Parser
	sessionID string
	out       io.Writer
}

func newREPL(game *services.GameService, sessionID string, out io.Writer) *repl {
	return &repl{
		game:      game,
		parser:    parser.New(),
		sessionID: sessionID,
		out:       out,
	}
}

func (r *repl) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

func (r *repl) printIntro() {
	r.printf("🎮 人生模拟器  输入 help 查看命令\n")
	r.status()
}

// handle 执行一行输入，返回 true 表示退出
func (r *repl) handle(line string) bool {
	intent := r.parser.Parse(line)
	if intent.Clarify != nil {
		r.clarify(intent.Clarify)
		return false
	}

	var err error
	switch intent.Verb {
	case "help":
		r.help()
	case "status":
		err = r.status()
	case "next":
		err = r.next()
	case "events":
		err = r.events()
	case "choose":
		err = r.choose(intent.Args)
	case "decline":
		err = r.decline(intent.Args)
	case "npcs":
		err = r.npcs()
	case "talk":
		err = r.talk(intent.Args[0], intent.Args[1])
	case "scenes":
		err = r.scenes()
	case "do":
		err = r.do(intent.Args[0], intent.Args[1])
	case "shop":
		err = r.shop()
	case "buy":
		err = r.buy(intent.Args[0])
	case "inventory":
		err = r.inventory()
	case "use":
		err = r.use(intent.Args[0])
	case "skills":
		err = r.skills()
	case "time":
		err = r.time(intent.Args)
	case "undo":
		err = r.undo()
	case "save":
		name := ""
		if len(intent.Args) > 0 {
			name = intent.Args[0]
		}
		err = r.save(name)
	case "saves":
		err = r.saves()
	case "load":
		err = r.load(intent.Args[0])
	case "bio":
		err = r.bio()
	case "quit":
		return true
	}

	var clarify *clarifyError
	switch {
	case errors.As(err, &clarify):
		r.clarify(clarify.q)
	case err != nil:
		r.printf("❌ %v\n", err)
	}
	return false
}

// clarifyError 参数无法确定时返回给 handle 的提示
type clarifyError struct {
	q *parser.ClarifyQuestion
}

func (e *clarifyError) Error() string {
	return e.q.Prompt
}

func (r *repl) clarify(q *parser.ClarifyQuestion) {
	r.printf("❓ %s\n", q.Prompt)
	for _, opt := range q.Options {
		r.printf("   - %s\n", opt)
	}
}

func resolve(arg string, ids, names []string) (string, error) {
	id, q := parser.Resolve(arg, ids, names)
	if q != nil {
		return "", &clarifyError{q: q}
	}
	return id, nil
}

func (r *repl) help() {
	r.printf("可用命令:\n")
	for _, cmd := range r.parser.Commands() {
		aliases := ""
		if len(cmd.Aliases) > 0 {
			aliases = "  (" + strings.Join(cmd.Aliases, ", ") + ")"
		}
		r.printf("  %-40s%s\n", cmd.Usage, aliases)
	}
}

func (r *repl) status() error {
	s, err := r.game.GetSession(r.sessionID)
	if err != nil {
		return err
	}
	c := s.Character

	r.printf("👤 %s  %d岁  %s", c.Name, c.Age, c.LifeStage.Label())
	if s.Status == models.SessionEnded {
		r.printf("  (人生已结束)")
	}
	r.printf("\n💰 金钱: %s\n", models.FormatNumber(c.Money))
	for _, attr := range models.AttributeNames {
		r.printf("   %s: %s\n", models.AttributeLabel(attr), models.FormatNumber(c.Attributes[attr]))
	}
	if c.Education.CurrentSchool != "" {
		r.printf("🎓 %s\n", c.Education.CurrentSchool)
	}
	if c.Career.HasJob {
		r.printf("💼 %s  年薪 %s  工作经验 %d 年\n", c.Career.JobTitle, models.FormatNumber(c.Career.Salary), c.Career.WorkExperience)
	}
	r.printTime(c.TimeAllocation)
	if len(s.Pending) > 0 {
		r.printf("📌 有 %d 个待处理事件，输入 events 查看\n", len(s.Pending))
	}
	return nil
}

func (r *repl) printTime(t models.TimeAllocation) {
	r.printf("⏰ 学习 %d%%  娱乐 %d%%  健身 %d%%  社交 %d%%  工作 %d%%  剩余 %d%%\n",
		t.Study, t.Entertainment, t.Fitness, t.Social, t.Work, t.Remaining)
}

func (r *repl) next() error {
	result, err := r.game.AdvanceYear(r.sessionID)
	if err != nil {
		return err
	}
	for _, line := range result.Log {
		r.printf("  %s\n", line)
	}
	for _, offer := range result.FiredEvents {
		r.printOffer(offer)
	}
	if result.Ended {
		r.printf("🏁 人生结束，输入 bio 查看人生小传\n")
	}
	return nil
}

func (r *repl) printOffer(offer models.EventOffer) {
	tag := ""
	if offer.Mandatory {
		tag = " [必选]"
	}
	r.printf("📜 %s%s (%s)\n   %s\n", offer.Title, tag, offer.EventID, offer.Description)
	for _, opt := range offer.Options {
		if opt.Enabled {
			r.printf("   %d. %s\n", opt.Index+1, opt.Text)
			continue
		}
		r.printf("   %d. %s  (不可选: %s)\n", opt.Index+1, opt.Text, strings.Join(opt.Reasons, "；"))
	}
}

func (r *repl) events() error {
	offers, err := r.game.PendingEvents(r.sessionID)
	if err != nil {
		return err
	}
	if len(offers) == 0 {
		r.printf("没有待处理的事件\n")
		return nil
	}
	for _, offer := range offers {
		r.printOffer(offer)
	}
	return nil
}

// pendingEvent 在待处理事件中解析参数，参数为空时取第一个
func (r *repl) pendingEvent(arg string) (string, error) {
	offers, err := r.game.PendingEvents(r.sessionID)
	if err != nil {
		return "", err
	}
	if len(offers) == 0 {
		return "", models.ErrNoPendingEvent
	}
	if arg == "" {
		return offers[0].EventID, nil
	}
	ids := make([]string, len(offers))
	names := make([]string, len(offers))
	for i, o := range offers {
		ids[i], names[i] = o.EventID, o.Title
	}
	return resolve(arg, ids, names)
}

func (r *repl) choose(args []string) error {
	eventArg, indexArg := "", args[len(args)-1]
	if len(args) == 2 {
		eventArg = args[0]
	}
	n, err := strconv.Atoi(indexArg)
	if err != nil || n < 1 {
		return fmt.Errorf("选项序号必须是正整数: %s", indexArg)
	}
	eventID, err := r.pendingEvent(eventArg)
	if err != nil {
		return err
	}

	result, err := r.game.ChooseOption(r.sessionID, eventID, n-1)
	if err != nil {
		return err
	}
	r.printResult(result)
	return nil
}

func (r *repl) decline(args []string) error {
	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}
	eventID, err := r.pendingEvent(arg)
	if err != nil {
		return err
	}
	if err := r.game.DeclineEvent(r.sessionID, eventID); err != nil {
		return err
	}
	r.printf("已放弃事件\n")
	return nil
}

func (r *repl) printResult(result *models.ChoiceResult) {
	r.printf("✅ %s\n", result.Message)
	for _, e := range result.Effects {
		r.printf("   %s\n", e)
	}
}

func (r *repl) printActions(actions []models.ActionView) {
	for _, a := range actions {
		if a.Enabled {
			r.printf("     - %s (%s)\n", a.Name, a.ID)
			continue
		}
		r.printf("     - %s (%s)  不可用: %s\n", a.Name, a.ID, strings.Join(a.Reasons, "；"))
	}
}

func (r *repl) npcs() error {
	views, err := r.game.AvailableNPCs(r.sessionID)
	if err != nil {
		return err
	}
	if len(views) == 0 {
		r.printf("现在没有可以互动的人\n")
	}
	for _, v := range views {
		r.printf("🧑 %s (%s)  关系 %d %s\n", v.Name, v.ID, v.Relationship, v.Label)
		r.printActions(v.Interactions)
	}
	return nil
}

func (r *repl) talk(npcArg, actionArg string) error {
	views, err := r.game.AvailableNPCs(r.sessionID)
	if err != nil {
		return err
	}
	ids := make([]string, len(views))
	names := make([]string, len(views))
	for i, v := range views {
		ids[i], names[i] = v.ID, v.Name
	}
	npcID, err := resolve(npcArg, ids, names)
	if err != nil {
		return err
	}

	var actions []models.ActionView
	for _, v := range views {
		if v.ID == npcID {
			actions = v.Interactions
		}
	}
	actionNames, actionLabels := actionIDs(actions)
	actionID, err := resolve(actionArg, actionNames, actionLabels)
	if err != nil {
		return err
	}

	result, err := r.game.Interact(r.sessionID, npcID, actionID)
	if err != nil {
		return err
	}
	r.printResult(result)
	return nil
}

func (r *repl) scenes() error {
	views, err := r.game.AvailableScenes(r.sessionID)
	if err != nil {
		return err
	}
	for _, v := range views {
		r.printf("📍 %s (%s)\n", v.Name, v.ID)
		r.printActions(v.Actions)
	}
	return nil
}

func (r *repl) do(sceneArg, actionArg string) error {
	views, err := r.game.AvailableScenes(r.sessionID)
	if err != nil {
		return err
	}
	ids := make([]string, len(views))
	names := make([]string, len(views))
	for i, v := range views {
		ids[i], names[i] = v.ID, v.Name
	}
	sceneID, err := resolve(sceneArg, ids, names)
	if err != nil {
		return err
	}

	var actions []models.ActionView
	for _, v := range views {
		if v.ID == sceneID {
			actions = v.Actions
		}
	}
	actionNames, actionLabels := actionIDs(actions)
	actionID, err := resolve(actionArg, actionNames, actionLabels)
	if err != nil {
		return err
	}

	result, err := r.game.PerformSceneAction(r.sessionID, sceneID, actionID)
	if err != nil {
		return err
	}
	r.printResult(result)
	return nil
}

func actionIDs(actions []models.ActionView) ([]string, []string) {
	ids := make([]string, len(actions))
	names := make([]string, len(actions))
	for i, a := range actions {
		ids[i], names[i] = a.ID, a.Name
	}
	return ids, names
}

func (r *repl) shop() error {
	items, err := r.game.ShopItems(r.sessionID)
	if err != nil {
		return err
	}
	for _, item := range items {
		mark := ""
		if !item.Affordable {
			mark = "  (钱不够)"
		}
		r.printf("🛍️ %s (%s)  %s  价格 %s%s\n", item.Name, item.ID, item.Type, models.FormatNumber(item.Price), mark)
	}
	return nil
}

func (r *repl) buy(arg string) error {
	items, err := r.game.ShopItems(r.sessionID)
	if err != nil {
		return err
	}
	ids := make([]string, len(items))
	names := make([]string, len(items))
	for i, item := range items {
		ids[i], names[i] = item.ID, item.Name
	}
	itemID, err := resolve(arg, ids, names)
	if err != nil {
		return err
	}

	bought, err := r.game.BuyItem(r.sessionID, itemID)
	if err != nil {
		return err
	}
	r.printf("✅ 购买了%s\n", bought.Name)
	return nil
}

func (r *repl) inventory() error {
	s, err := r.game.GetSession(r.sessionID)
	if err != nil {
		return err
	}
	if len(s.Character.Inventory) == 0 {
		r.printf("物品栏是空的\n")
		return nil
	}
	for _, item := range s.Character.Inventory {
		r.printf("🎒 %s (%s)  %s\n", item.Name, item.ItemID, item.Description)
	}
	return nil
}

func (r *repl) use(arg string) error {
	s, err := r.game.GetSession(r.sessionID)
	if err != nil {
		return err
	}

	// 同类物品只列一次，使用最早获得的那件
	instances := map[string]string{}
	var ids, names []string
	for _, item := range s.Character.Inventory {
		if _, ok := instances[item.ItemID]; ok {
			continue
		}
		instances[item.ItemID] = item.InstanceID
		ids = append(ids, item.ItemID)
		names = append(names, item.Name)
	}
	itemID, err := resolve(arg, ids, names)
	if err != nil {
		return err
	}

	result, err := r.game.UseItem(r.sessionID, instances[itemID])
	if err != nil {
		return err
	}
	r.printResult(result)
	return nil
}

func (r *repl) skills() error {
	views, err := r.game.Skills(r.sessionID)
	if err != nil {
		return err
	}
	for _, v := range views {
		if v.Locked {
			r.printf("🔒 %s (%s)\n", v.Name, v.ID)
			continue
		}
		r.printf("📘 %s  等级 %d  经验 %s/100  %s\n", v.Name, v.Level, models.FormatNumber(v.Experience), v.Description)
	}
	return nil
}

func (r *repl) time(args []string) error {
	if len(args) == 0 {
		s, err := r.game.GetSession(r.sessionID)
		if err != nil {
			return err
		}
		r.printTime(s.Character.TimeAllocation)
		return nil
	}
	if len(args) != 5 {
		return fmt.Errorf("用法: time <学习> <娱乐> <健身> <社交> <工作>")
	}

	values := make([]int, len(args))
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return fmt.Errorf("时间必须是整数: %s", a)
		}
		values[i] = v
	}
	alloc, err := r.game.SetTimeAllocation(r.sessionID, models.TimeAllocation{
		Study:         values[0],
		Entertainment: values[1],
		Fitness:       values[2],
		Social:        values[3],
		Work:          values[4],
	})
	if err != nil {
		return err
	}
	r.printTime(*alloc)
	return nil
}

func (r *repl) undo() error {
	s, err := r.game.UndoYear(r.sessionID)
	if err != nil {
		return err
	}
	r.printf("⏪ 已回到 %d 岁\n", s.Character.Age)
	return nil
}

func (r *repl) save(name string) error {
	save, err := r.game.SaveGame(r.sessionID, name, "")
	if err != nil {
		return err
	}
	r.printf("💾 已存档: %s (%s)\n", save.Name, save.ID)
	return nil
}

func (r *repl) saves() error {
	saves, err := r.game.ListSaves(r.sessionID)
	if err != nil {
		return err
	}
	if len(saves) == 0 {
		r.printf("还没有存档\n")
	}
	for _, save := range saves {
		r.printf("💾 %s (%s)  %s  %s\n", save.Name, save.ID, save.Description, save.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func (r *repl) load(arg string) error {
	saves, err := r.game.ListSaves(r.sessionID)
	if err != nil {
		return err
	}
	ids := make([]string, len(saves))
	names := make([]string, len(saves))
	for i, save := range saves {
		ids[i], names[i] = save.ID, save.Name
	}
	saveID, err := resolve(arg, ids, names)
	if err != nil {
		return err
	}

	s, err := r.game.LoadGame(saveID)
	if err != nil {
		return err
	}
	r.sessionID = s.ID
	r.printf("📂 已读档，回到 %d 岁\n", s.Character.Age)
	return nil
}

func (r *repl) bio() error {
	text, err := r.game.Biography(context.Background(), r.sessionID, nil)
	if err != nil {
		return err
	}
	r.printf("%s\n", text)
	return nil
}
